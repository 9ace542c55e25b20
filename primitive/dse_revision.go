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

package primitive

import "fmt"

// DseRevisionType selects the operation of a DSE REVISE_REQUEST message (continuous paging control).
type DseRevisionType uint32

const (
	DseRevisionTypeCancelContinuousPaging = DseRevisionType(0x00000001)
	DseRevisionTypeMoreContinuousPages    = DseRevisionType(0x00000002) // DSE v2+
)

func (t DseRevisionType) IsValid() bool {
	switch t {
	case DseRevisionTypeCancelContinuousPaging, DseRevisionTypeMoreContinuousPages:
		return true
	default:
		return false
	}
}

func (t DseRevisionType) String() string {
	switch t {
	case DseRevisionTypeCancelContinuousPaging:
		return "DseRevisionType CancelContinuousPaging [0x00000001]"
	case DseRevisionTypeMoreContinuousPages:
		return "DseRevisionType MoreContinuousPages [0x00000002]"
	default:
		return fmt.Sprintf("DseRevisionType ? [%#.8X]", uint32(t))
	}
}
