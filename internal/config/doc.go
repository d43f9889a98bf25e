// Package config provides configuration parsing for reactor.
//
// The configuration is stored in reactor.toml at the project root. A
// missing file is not an error: every field has a default.
//
// # Configuration File Structure
//
//	dev_mode = true
//	recursion_limit = 100
//	log_level = "debug"
//
//	[metrics]
//	enabled = true
//	namespace = "myapp"
//
//	[tracing]
//	enabled = false
//	tracer_name = "myapp"
//
//	[serve]
//	addr = "localhost:7420"
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Limit:", cfg.RecursionLimit)
package config
