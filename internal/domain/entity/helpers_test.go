package entity

import "time"

var testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
