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

// ErrorCode identifies the class of failure reported by an ERROR message.
type ErrorCode uint32

// Fatal errors: the connection is generally unusable afterwards.
const (
	ErrorCodeServerError         = ErrorCode(0x00000000)
	ErrorCodeProtocolError       = ErrorCode(0x0000000A)
	ErrorCodeAuthenticationError = ErrorCode(0x00000100)
)

// Request execution errors: the query was understood but could not run.
const (
	ErrorCodeUnavailable     = ErrorCode(0x00001000)
	ErrorCodeOverloaded      = ErrorCode(0x00001001)
	ErrorCodeIsBootstrapping = ErrorCode(0x00001002)
	ErrorCodeTruncateError   = ErrorCode(0x00001003)
	ErrorCodeWriteTimeout    = ErrorCode(0x00001100)
	ErrorCodeReadTimeout     = ErrorCode(0x00001200)
	ErrorCodeReadFailure     = ErrorCode(0x00001300)
	ErrorCodeFunctionFailure = ErrorCode(0x00001400)
	ErrorCodeWriteFailure    = ErrorCode(0x00001500)
)

// Query validation errors: the query itself was rejected.
const (
	ErrorCodeSyntaxError   = ErrorCode(0x00002000)
	ErrorCodeUnauthorized  = ErrorCode(0x00002100)
	ErrorCodeInvalid       = ErrorCode(0x00002200)
	ErrorCodeConfigError   = ErrorCode(0x00002300)
	ErrorCodeAlreadyExists = ErrorCode(0x00002400)
	ErrorCodeUnprepared    = ErrorCode(0x00002500)
)

var fatalErrorCodes = map[ErrorCode]bool{
	ErrorCodeServerError: true, ErrorCodeProtocolError: true, ErrorCodeAuthenticationError: true,
}

var executionErrorCodes = map[ErrorCode]bool{
	ErrorCodeUnavailable: true, ErrorCodeOverloaded: true, ErrorCodeIsBootstrapping: true,
	ErrorCodeTruncateError: true, ErrorCodeWriteTimeout: true, ErrorCodeReadTimeout: true,
	ErrorCodeReadFailure: true, ErrorCodeFunctionFailure: true, ErrorCodeWriteFailure: true,
}

var validationErrorCodes = map[ErrorCode]bool{
	ErrorCodeSyntaxError: true, ErrorCodeUnauthorized: true, ErrorCodeInvalid: true,
	ErrorCodeConfigError: true, ErrorCodeAlreadyExists: true, ErrorCodeUnprepared: true,
}

func (c ErrorCode) IsValid() bool {
	return fatalErrorCodes[c] || executionErrorCodes[c] || validationErrorCodes[c]
}

func (c ErrorCode) IsFatalError() bool {
	return fatalErrorCodes[c]
}

func (c ErrorCode) IsRequestExecutionError() bool {
	return executionErrorCodes[c]
}

func (c ErrorCode) IsQueryValidationError() bool {
	return validationErrorCodes[c]
}

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeServerError:
		return "ErrorCode ServerError [0x00000000]"
	case ErrorCodeProtocolError:
		return "ErrorCode ProtocolError [0x0000000A]"
	case ErrorCodeAuthenticationError:
		return "ErrorCode AuthenticationError [0x00000100]"
	case ErrorCodeUnavailable:
		return "ErrorCode Unavailable [0x00001000]"
	case ErrorCodeOverloaded:
		return "ErrorCode Overloaded [0x00001001]"
	case ErrorCodeIsBootstrapping:
		return "ErrorCode IsBootstrapping [0x00001002]"
	case ErrorCodeTruncateError:
		return "ErrorCode TruncateError [0x00001003]"
	case ErrorCodeWriteTimeout:
		return "ErrorCode WriteTimeout [0x00001100]"
	case ErrorCodeReadTimeout:
		return "ErrorCode ReadTimeout [0x00001200]"
	case ErrorCodeReadFailure:
		return "ErrorCode ReadFailure [0x00001300]"
	case ErrorCodeFunctionFailure:
		return "ErrorCode FunctionFailure [0x00001400]"
	case ErrorCodeWriteFailure:
		return "ErrorCode WriteFailure [0x00001500]"
	case ErrorCodeSyntaxError:
		return "ErrorCode SyntaxError [0x00002000]"
	case ErrorCodeUnauthorized:
		return "ErrorCode Unauthorized [0x00002100]"
	case ErrorCodeInvalid:
		return "ErrorCode Invalid [0x00002200]"
	case ErrorCodeConfigError:
		return "ErrorCode ConfigError [0x00002300]"
	case ErrorCodeAlreadyExists:
		return "ErrorCode AlreadyExists [0x00002400]"
	case ErrorCodeUnprepared:
		return "ErrorCode Unprepared [0x00002500]"
	default:
		return fmt.Sprintf("ErrorCode ? [%#.8X]", uint32(c))
	}
}
