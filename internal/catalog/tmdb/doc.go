// Package tmdb is a thin client for The Movie Database v3 REST API.
//
// It owns endpoint paths, query parameters, api_key authentication, and the
// decoding of both success payloads and upstream error bodies. It does not
// retry and knows nothing about application semantics; package catalog layers
// normalization and fallback rules on top.
package tmdb
