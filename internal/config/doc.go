// Package config loads and validates the YAML site configuration.
//
// A site configuration looks like:
//
//	input: src
//	output: _site
//	title: Documentation
//	language: en
//	passthrough: [css, js, icons]
//	critical:
//	  stylesheets: [css/main.css]
//	  safelist:
//	    - pattern: "^toast-"
//	      kind: standard
//	icons:
//	  sprite: /icons/icons.svg
//	  prefix: svg-
//
// Unknown keys are rejected.
package config
