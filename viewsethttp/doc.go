// Package viewsethttp mounts viewsets on a gin router. It is a thin shell:
// it threads the raw query parameters and request bodies into the facade and
// maps the error taxonomy onto HTTP status codes. No caching or validation
// logic lives here.
package viewsethttp
