package preview

// clientScript connects to the push channel and swaps the page body when new
// content arrives.
const clientScript = `
(function() {
    'use strict';

    var root = document.getElementById('spark-root');
    var delay = 1000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/_spark/ws');

        ws.onopen = function() { delay = 1000; };

        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'content') {
                root.innerHTML = msg.html;
                root.removeAttribute('data-error');
            } else if (msg.type === 'error') {
                root.setAttribute('data-error', msg.error);
                console.error('[spark]', msg.error);
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    connect();
})();
`
