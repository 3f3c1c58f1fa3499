// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format turns raw file metadata into the strings shown for a file row.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ModifiedLayout is the layout used for the modified column and the persisted snapshot.
const ModifiedLayout = "2006-01-02 15:04"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// 📏 FormatSize converts a byte count to a human readable magnitude.
// Values are divided by 1024 until they fit the largest matching unit and
// rounded to one decimal, so 1572864 becomes "1.5 MB" and 1024 becomes "1 KB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	size := float64(bytes)
	order := 0
	for size >= 1024 && order < len(sizeUnits)-1 {
		order++
		size = size / 1024
	}

	rounded := math.Round(size*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[order]
}

// 🕒 FormatModified formats a modification time in local time.
func FormatModified(t time.Time) string {
	return t.Local().Format(ModifiedLayout)
}

// FormatProgress formats a progress message with percentage
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
