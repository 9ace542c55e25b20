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

// FailureCode is the per-node reason attached to an entry of a READ_FAILURE/WRITE_FAILURE reason map.
type FailureCode uint16

const (
	FailureCodeUnknown               = FailureCode(0x0000)
	FailureCodeTooManyTombstonesRead = FailureCode(0x0001)
	FailureCodeIndexNotAvailable     = FailureCode(0x0002)
	FailureCodeCdcSpaceFull          = FailureCode(0x0003)
	FailureCodeCounterWrite          = FailureCode(0x0004)
	FailureCodeTableNotFound         = FailureCode(0x0005)
	FailureCodeKeyspaceNotFound      = FailureCode(0x0006)
)

func (c FailureCode) IsValid() bool {
	switch c {
	case FailureCodeUnknown, FailureCodeTooManyTombstonesRead, FailureCodeIndexNotAvailable,
		FailureCodeCdcSpaceFull, FailureCodeCounterWrite, FailureCodeTableNotFound, FailureCodeKeyspaceNotFound:
		return true
	default:
		return false
	}
}

func (c FailureCode) String() string {
	switch c {
	case FailureCodeUnknown:
		return "FailureCode Unknown [0x0000]"
	case FailureCodeTooManyTombstonesRead:
		return "FailureCode TooManyTombstonesRead [0x0001]"
	case FailureCodeIndexNotAvailable:
		return "FailureCode IndexNotAvailable [0x0002]"
	case FailureCodeCdcSpaceFull:
		return "FailureCode CdcSpaceFull [0x0003]"
	case FailureCodeCounterWrite:
		return "FailureCode CounterWrite [0x0004]"
	case FailureCodeTableNotFound:
		return "FailureCode TableNotFound [0x0005]"
	case FailureCodeKeyspaceNotFound:
		return "FailureCode KeyspaceNotFound [0x0006]"
	default:
		return fmt.Sprintf("FailureCode ? [%#.4X]", uint16(c))
	}
}
