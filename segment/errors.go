// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package segment

import "fmt"

// Part identifies which checksummed part of a segment failed verification.
type Part string

const (
	PartHeader  Part = "header"
	PartPayload Part = "payload"
)

// ChecksumError reports a CRC mismatch detected while decoding a segment. It lets callers (such as the connection
// package) distinguish a corrupted header from a corrupted payload without parsing error strings.
type ChecksumError struct {
	Part     Part
	Received uint32
	Computed uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("crc mismatch on %s: received %x, computed %x", e.Part, e.Received, e.Computed)
}
