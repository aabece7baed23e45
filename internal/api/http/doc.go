// Package http exposes the command surface over REST.
//
// POST /command accepts the raw envelope used by every front end. The
// resource routes (/settings, /sessions, /events) translate to the same
// commands and map failures to status codes: 400 for validation, 404 for
// unknown sessions, 500 otherwise.
package http
