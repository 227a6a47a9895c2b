// Package sign implements the request tokens and signatures the API expects
// on authenticated calls.
//
// Everything here is a pure function over its inputs. The constants, field
// order, pipe delimiter and truncation length are an external contract
// verified against the live service and must not be altered.
package sign
