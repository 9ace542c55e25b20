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

// ResultType identifies the shape of a RESULT message body.
type ResultType uint32

const (
	ResultTypeVoid         = ResultType(0x00000001)
	ResultTypeRows         = ResultType(0x00000002)
	ResultTypeSetKeyspace  = ResultType(0x00000003)
	ResultTypePrepared     = ResultType(0x00000004)
	ResultTypeSchemaChange = ResultType(0x00000005)
)

func (t ResultType) IsValid() bool {
	switch t {
	case ResultTypeVoid, ResultTypeRows, ResultTypeSetKeyspace, ResultTypePrepared, ResultTypeSchemaChange:
		return true
	default:
		return false
	}
}

func (t ResultType) String() string {
	switch t {
	case ResultTypeVoid:
		return "ResultType Void [0x00000001]"
	case ResultTypeRows:
		return "ResultType Rows [0x00000002]"
	case ResultTypeSetKeyspace:
		return "ResultType SetKeyspace [0x00000003]"
	case ResultTypePrepared:
		return "ResultType Prepared [0x00000004]"
	case ResultTypeSchemaChange:
		return "ResultType SchemaChange [0x00000005]"
	default:
		return fmt.Sprintf("ResultType ? [%#.8X]", uint32(t))
	}
}
