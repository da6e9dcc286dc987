package http

import "time"

// timeNow is swapped in tests to pin the default week.
var timeNow = time.Now
