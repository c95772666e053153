package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/spark/internal/config"
	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/internal/treefile"
)

type fakeS3 struct {
	keys   []string
	bodies map[string]string
	types  map[string]string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	if f.bodies == nil {
		f.bodies = map[string]string{}
		f.types = map[string]string{}
	}
	f.bodies[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestDirPublisher(t *testing.T) {
	dir := t.TempDir()
	p := NewDirPublisher(filepath.Join(dir, "out"), nil)

	if err := p.Publish(context.Background(), "docs/index.html", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "docs", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>hi</p>" {
		t.Errorf("file = %q", data)
	}

	// Overwrite in place.
	if err := p.Publish(context.Background(), "docs/index.html", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "out", "docs", "index.html"))
	if string(data) != "v2" {
		t.Errorf("file after overwrite = %q", data)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "out", "docs"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestDirPublisherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDirPublisher(t.TempDir(), nil).Publish(ctx, "a.html", nil)
	if !errors.HasCode(err, errors.CodePublishFailed) {
		t.Errorf("Publish() = %v, want %s", err, errors.CodePublishFailed)
	}
}

func TestInvalidNames(t *testing.T) {
	p := NewDirPublisher(t.TempDir(), nil)
	for _, name := range []string{"", "../escape.html", "/abs.html", "a/../b.html", "."} {
		if err := p.Publish(context.Background(), name, nil); !errors.HasCode(err, errors.CodePublishFailed) {
			t.Errorf("Publish(%q) = %v, want %s", name, err, errors.CodePublishFailed)
		}
	}
}

func TestS3Publisher(t *testing.T) {
	fake := &fakeS3{}
	p := newS3Publisher(fake, S3Options{Bucket: "site", Prefix: "v1/"})

	if err := p.Publish(context.Background(), "index.html", []byte("<h1>x</h1>")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if diff := cmp.Diff([]string{"site/v1/index.html"}, fake.keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if fake.bodies["site/v1/index.html"] != "<h1>x</h1>" {
		t.Errorf("body = %q", fake.bodies["site/v1/index.html"])
	}
	if got := fake.types["site/v1/index.html"]; got != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
}

func TestS3PublisherError(t *testing.T) {
	fake := &fakeS3{err: io.ErrUnexpectedEOF}
	p := newS3Publisher(fake, S3Options{Bucket: "site"})

	err := p.Publish(context.Background(), "index.html", nil)
	if !errors.HasCode(err, errors.CodePublishFailed) {
		t.Fatalf("Publish() = %v, want %s", err, errors.CodePublishFailed)
	}
	if detail := errors.FromError(err, "").Detail; detail != "s3://site/index.html" {
		t.Errorf("error should name the object: %v", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); !errors.HasCode(err, errors.CodePublishFailed) {
		t.Errorf("envCredentials() without env = %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestNewSelectsPublisher(t *testing.T) {
	cfg := config.New()
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*DirPublisher); !ok {
		t.Errorf("New() = %T, want *DirPublisher", p)
	}

	cfg.Publish.Bucket = "b"
	cfg.Publish.Region = "us-east-1"
	p, err = New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*S3Publisher); !ok {
		t.Errorf("New() = %T, want *S3Publisher", p)
	}
}

func TestDocument(t *testing.T) {
	doc, err := treefile.Parse([]byte("title: Hi\nvars: {name: World}\npage: {tag: p, children: [\"Hello \", {var: name}]}\n"))
	if err != nil {
		t.Fatal(err)
	}
	fake := &fakeS3{}
	p := newS3Publisher(fake, S3Options{Bucket: "b"})
	if err := Document(context.Background(), p, "index.html", doc); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	page := fake.bodies["b/index.html"]
	for _, want := range []string{"<title>Hi</title>", "<p>Hello World</p>"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q:\n%s", want, page)
		}
	}
}

func TestPageName(t *testing.T) {
	tests := map[string]string{
		"index.yaml":         "index.html",
		"pages/about.yml":    "about.html",
		`pages\windows.yaml`: "windows.html",
		"noext":              "noext.html",
	}
	for in, want := range tests {
		if got := PageName(in); got != want {
			t.Errorf("PageName(%q) = %q, want %q", in, got, want)
		}
	}
}
