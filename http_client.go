package main

import (
	"net/http"
	"time"
)

// The sheet export endpoint can be slow on large tabs; every section fetch
// in a request shares this client and its timeout.
const sheetFetchTimeout = 30 * time.Second

var sheetHTTPClient = &http.Client{
	Timeout: sheetFetchTimeout,
}
