// Package labels names the first element of each wire message array.
package labels

const (
	EVENT  = "EVENT"
	REQ    = "REQ"
	CLOSE  = "CLOSE"
	OK     = "OK"
	EOSE   = "EOSE"
	NOTICE = "NOTICE"
	COUNT  = "COUNT"
)
