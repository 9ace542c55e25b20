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

// OpCode identifies the kind of message carried by a frame body.
type OpCode uint8

const (
	OpCodeStartup      = OpCode(0x01)
	OpCodeOptions      = OpCode(0x05)
	OpCodeQuery        = OpCode(0x07)
	OpCodePrepare      = OpCode(0x09)
	OpCodeExecute      = OpCode(0x0A)
	OpCodeRegister     = OpCode(0x0B)
	OpCodeBatch        = OpCode(0x0D)
	OpCodeAuthResponse = OpCode(0x0F)
	OpCodeDseRevise    = OpCode(0xFF) // DSE v1
)

const (
	OpCodeError         = OpCode(0x00)
	OpCodeReady         = OpCode(0x02)
	OpCodeAuthenticate  = OpCode(0x03)
	OpCodeSupported     = OpCode(0x06)
	OpCodeResult        = OpCode(0x08)
	OpCodeEvent         = OpCode(0x0C)
	OpCodeAuthChallenge = OpCode(0x0E)
	OpCodeAuthSuccess   = OpCode(0x10)
)

var requestOpCodes = map[OpCode]bool{
	OpCodeStartup: true, OpCodeOptions: true, OpCodeQuery: true, OpCodePrepare: true,
	OpCodeExecute: true, OpCodeRegister: true, OpCodeBatch: true, OpCodeAuthResponse: true, OpCodeDseRevise: true,
}

var responseOpCodes = map[OpCode]bool{
	OpCodeError: true, OpCodeReady: true, OpCodeAuthenticate: true, OpCodeSupported: true,
	OpCodeResult: true, OpCodeEvent: true, OpCodeAuthChallenge: true, OpCodeAuthSuccess: true,
}

func (c OpCode) IsValid() bool {
	return requestOpCodes[c] || responseOpCodes[c]
}

func (c OpCode) IsRequest() bool {
	return requestOpCodes[c]
}

func (c OpCode) IsResponse() bool {
	return responseOpCodes[c]
}

func (c OpCode) IsDse() bool {
	return c == OpCodeDseRevise
}

func (c OpCode) String() string {
	switch c {
	case OpCodeStartup:
		return "OpCode STARTUP [0x01]"
	case OpCodeOptions:
		return "OpCode OPTIONS [0x05]"
	case OpCodeQuery:
		return "OpCode QUERY [0x07]"
	case OpCodePrepare:
		return "OpCode PREPARE [0x09]"
	case OpCodeExecute:
		return "OpCode EXECUTE [0x0A]"
	case OpCodeRegister:
		return "OpCode REGISTER [0x0B]"
	case OpCodeBatch:
		return "OpCode BATCH [0x0D]"
	case OpCodeAuthResponse:
		return "OpCode AUTH RESPONSE [0x0F]"
	case OpCodeDseRevise:
		return "OpCode REVISE [0xFF]"
	case OpCodeError:
		return "OpCode ERROR [0x00]"
	case OpCodeReady:
		return "OpCode READY [0x02]"
	case OpCodeAuthenticate:
		return "OpCode AUTHENTICATE [0x03]"
	case OpCodeSupported:
		return "OpCode SUPPORTED [0x06]"
	case OpCodeResult:
		return "OpCode RESULT [0x08]"
	case OpCodeEvent:
		return "OpCode EVENT [0x0C]"
	case OpCodeAuthChallenge:
		return "OpCode AUTH CHALLENGE [0x0E]"
	case OpCodeAuthSuccess:
		return "OpCode AUTH SUCCESS [0x10]"
	default:
		return fmt.Sprintf("OpCode ? [%#.2X]", uint8(c))
	}
}
