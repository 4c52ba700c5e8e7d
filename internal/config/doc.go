// Package config provides configuration parsing for the vtree transport
// service and CLI.
//
// The configuration is stored in vtree.json at the project root. This
// package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "transport": {
//	    "port": 8080,
//	    "host": "0.0.0.0",
//	    "maxBodyBytes": 1048576
//	  },
//	  "snapshot": {
//	    "backend": "s3",
//	    "bucket": "my-docs",
//	    "prefix": "snapshots/",
//	    "region": "us-east-1"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vtree"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "serviceName": "vtree-transport"
//	  },
//	  "logLevel": "info"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Transport.Port)
package config
