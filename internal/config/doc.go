// Package config loads bindery.json or bindery.yaml.
//
// # Configuration File Structure
//
//	binding:
//	  suffix: {attr: .attr, prop: .prop}
//	  attr: {text: b-text, ref: b-ref, iter: b-iter, closed: b-closed}
//	  sep: {ref: " ", multivalue: "+", calc: ":"}
//	  self: self
//	  index: true
//	render:
//	  pretty: true
//	  indent: "  "
//	  doctype: true
//	serve:
//	  host: localhost
//	  port: 3000
//	  readTimeout: 10s
//	publish:
//	  bucket: my-site
//	  prefix: snapshots
//	  region: eu-west-1
//
// The same keys are accepted in bindery.json. Missing keys take their
// defaults; Validate reports conflicting directive names and bad ports.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	core := bind.New(data, cfg.BindOptions()...)
package config
