/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"math"
	"time"
)

// NanosPerDay is the number of nanoseconds in a day.
const NanosPerDay = int64(24*60*60) * 1e9

// Timestamp is a calendar timestamp split into a day number (days since the
// Unix epoch, possibly negative) and a time of day in nanoseconds.
type Timestamp struct {
	Days  int32
	Nanos int64
}

// TimestampFromTime converts a time.Time, using its UTC reading.
func TimestampFromTime(t time.Time) Timestamp {
	u := t.UTC()
	secs := u.Unix()
	days := secs / 86400
	rem := secs - days*86400
	if rem < 0 {
		days--
		rem += 86400
	}
	return Timestamp{Days: int32(days), Nanos: rem*1e9 + int64(u.Nanosecond())}
}

// Float converts the timestamp to a fractional number of days. This is the
// averaging domain for timestamp aggregates.
func (t Timestamp) Float() float64 {
	return float64(t.Days) + float64(t.Nanos)/float64(NanosPerDay)
}

// TimestampFromFloat converts a fractional number of days back to a
// timestamp.
func TimestampFromFloat(d float64) Timestamp {
	days := math.Floor(d)
	nanos := int64(math.Round((d - days) * float64(NanosPerDay)))
	if nanos >= NanosPerDay {
		days++
		nanos -= NanosPerDay
	}
	return Timestamp{Days: int32(days), Nanos: nanos}
}

// Compare orders two timestamps by (date, time-of-day).
func (t Timestamp) Compare(o Timestamp) int {
	if t.Days != o.Days {
		if t.Days < o.Days {
			return -1
		}
		return 1
	}
	if t.Nanos != o.Nanos {
		if t.Nanos < o.Nanos {
			return -1
		}
		return 1
	}
	return 0
}

// Time converts the timestamp to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t.Days)*86400, t.Nanos).UTC()
}

func (t Timestamp) String() string {
	tm := t.Time()
	if t.Nanos%1e9 == 0 {
		return tm.Format("2006-01-02 15:04:05")
	}
	return tm.Format("2006-01-02 15:04:05.000000000")
}
