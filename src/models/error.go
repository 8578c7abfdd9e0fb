package models

import (
	"fmt"
	"math"
)

var MissingQuoteErr = fmt.Errorf("missing quote")
var EmptyCollectionErr = fmt.Errorf("empty collection")
var NonConvergenceErr = fmt.Errorf("implied volatility did not converge")
var UndefinedGreekErr = fmt.Errorf("greek is undefined")
var InvalidKeyErr = fmt.Errorf("key not found")
var KeyMismatchErr = fmt.Errorf("tick does not belong to this collection")
var ValueKindMismatchErr = fmt.Errorf("value kinds do not match")
var MissingVolumeErr = fmt.Errorf("volume not set")
var IndexOutOfRangeErr = fmt.Errorf("index out of range")

// Epsilon is the float64 machine epsilon. Values below it are treated as "no quote".
var Epsilon = math.Nextafter(1, 2) - 1
