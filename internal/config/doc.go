// Package config loads spark.json, the configuration for the spark CLI.
//
// # Configuration File Structure
//
//	{
//	  "serve": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "watch": true
//	  },
//	  "publish": {
//	    "dir": "dist",
//	    "bucket": "my-site",
//	    "prefix": "pages/",
//	    "region": "eu-west-1"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// Missing sections keep their defaults, so an empty object is a valid file.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.ServeAddress())
package config
