// Package config loads, normalizes, and validates reaper configuration data.
//
// It supplies repository defaults rooted in the XDG base directories, expands
// user paths (including tilde shortcuts), reads TOML files, and honours
// environment fallbacks for transfer credentials such as REAPER_API_KEY. The
// Config type centralizes every knob the CLI needs, including the metadata
// field names used to label sessions, acquisitions, and datasets.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a validated timezone, and one immutable FieldNames value
// built before scanning begins.
package config
