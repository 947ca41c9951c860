// Package config loads the YAML configuration of image-pen.
//
// The file is located by the --config flag or the IMAGE_PEN_CONFIG
// environment variable. Every field is optional; missing fields keep the
// values of Default. Unknown fields are rejected so typos surface early.
package config
