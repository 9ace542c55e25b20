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

package protocol

import (
	"fmt"
	"io"

	"github.com/nativecql/corecql/primitive"
)

type Error interface {
	Message
	GetErrorCode() primitive.ErrorCode
	GetErrorMessage() string
}

// SERVER ERROR

type ServerError struct {
	ErrorMessage string
}

func (m *ServerError) IsResponse() bool { return true }

func (m *ServerError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *ServerError) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeServerError }

func (m *ServerError) GetErrorMessage() string { return m.ErrorMessage }

func (m *ServerError) String() string {
	return fmt.Sprintf("ERROR SERVER ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *ServerError) Clone() Message { return &ServerError{ErrorMessage: m.ErrorMessage} }

// PROTOCOL ERROR

type ProtocolError struct {
	ErrorMessage string
}

func (m *ProtocolError) IsResponse() bool { return true }

func (m *ProtocolError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *ProtocolError) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeProtocolError }

func (m *ProtocolError) GetErrorMessage() string { return m.ErrorMessage }

func (m *ProtocolError) String() string {
	return fmt.Sprintf("ERROR PROTOCOL ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *ProtocolError) Clone() Message { return &ProtocolError{ErrorMessage: m.ErrorMessage} }

// AUTHENTICATION ERROR

type AuthenticationError struct {
	ErrorMessage string
}

func (m *AuthenticationError) IsResponse() bool { return true }

func (m *AuthenticationError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *AuthenticationError) GetErrorCode() primitive.ErrorCode {
	return primitive.ErrorCodeAuthenticationError
}

func (m *AuthenticationError) GetErrorMessage() string { return m.ErrorMessage }

func (m *AuthenticationError) String() string {
	return fmt.Sprintf("ERROR AUTHENTICATION ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *AuthenticationError) Clone() Message {
	return &AuthenticationError{ErrorMessage: m.ErrorMessage}
}

// OVERLOADED

type Overloaded struct {
	ErrorMessage string
}

func (m *Overloaded) IsResponse() bool { return true }

func (m *Overloaded) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Overloaded) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeOverloaded }

func (m *Overloaded) GetErrorMessage() string { return m.ErrorMessage }

func (m *Overloaded) String() string {
	return fmt.Sprintf("ERROR OVERLOADED (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *Overloaded) Clone() Message { return &Overloaded{ErrorMessage: m.ErrorMessage} }

// IS BOOTSTRAPPING

type IsBootstrapping struct {
	ErrorMessage string
}

func (m *IsBootstrapping) IsResponse() bool { return true }

func (m *IsBootstrapping) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *IsBootstrapping) GetErrorCode() primitive.ErrorCode {
	return primitive.ErrorCodeIsBootstrapping
}

func (m *IsBootstrapping) GetErrorMessage() string { return m.ErrorMessage }

func (m *IsBootstrapping) String() string {
	return fmt.Sprintf("ERROR IS BOOTSTRAPPING (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *IsBootstrapping) Clone() Message { return &IsBootstrapping{ErrorMessage: m.ErrorMessage} }

// TRUNCATE ERROR

type TruncateError struct {
	ErrorMessage string
}

func (m *TruncateError) IsResponse() bool { return true }

func (m *TruncateError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *TruncateError) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeTruncateError }

func (m *TruncateError) GetErrorMessage() string { return m.ErrorMessage }

func (m *TruncateError) String() string {
	return fmt.Sprintf("ERROR TRUNCATE ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *TruncateError) Clone() Message { return &TruncateError{ErrorMessage: m.ErrorMessage} }

// SYNTAX ERROR

type SyntaxError struct {
	ErrorMessage string
}

func (m *SyntaxError) IsResponse() bool { return true }

func (m *SyntaxError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *SyntaxError) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeSyntaxError }

func (m *SyntaxError) GetErrorMessage() string { return m.ErrorMessage }

func (m *SyntaxError) String() string {
	return fmt.Sprintf("ERROR SYNTAX ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *SyntaxError) Clone() Message { return &SyntaxError{ErrorMessage: m.ErrorMessage} }

// UNAUTHORIZED

type Unauthorized struct {
	ErrorMessage string
}

func (m *Unauthorized) IsResponse() bool { return true }

func (m *Unauthorized) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Unauthorized) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeUnauthorized }

func (m *Unauthorized) GetErrorMessage() string { return m.ErrorMessage }

func (m *Unauthorized) String() string {
	return fmt.Sprintf("ERROR UNAUTHORIZED (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *Unauthorized) Clone() Message { return &Unauthorized{ErrorMessage: m.ErrorMessage} }

// INVALID

type Invalid struct {
	ErrorMessage string
}

func (m *Invalid) IsResponse() bool { return true }

func (m *Invalid) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Invalid) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeInvalid }

func (m *Invalid) GetErrorMessage() string { return m.ErrorMessage }

func (m *Invalid) String() string {
	return fmt.Sprintf("ERROR INVALID (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *Invalid) Clone() Message { return &Invalid{ErrorMessage: m.ErrorMessage} }

// CONFIG ERROR

type ConfigError struct {
	ErrorMessage string
}

func (m *ConfigError) IsResponse() bool { return true }

func (m *ConfigError) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *ConfigError) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeConfigError }

func (m *ConfigError) GetErrorMessage() string { return m.ErrorMessage }

func (m *ConfigError) String() string {
	return fmt.Sprintf("ERROR CONFIG ERROR (code=%v, msg=%v)", m.GetErrorCode(), m.ErrorMessage)
}

func (m *ConfigError) Clone() Message { return &ConfigError{ErrorMessage: m.ErrorMessage} }

// UNAVAILABLE

type Unavailable struct {
	ErrorMessage string
	Consistency  primitive.ConsistencyLevel
	Required     int32
	Alive        int32
}

func (m *Unavailable) IsResponse() bool { return true }

func (m *Unavailable) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Unavailable) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeUnavailable }

func (m *Unavailable) GetErrorMessage() string { return m.ErrorMessage }

func (m *Unavailable) String() string {
	return fmt.Sprintf(
		"ERROR UNAVAILABLE (code=%v, msg=%v, cl=%v, required=%v, alive=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Consistency, m.Required, m.Alive,
	)
}

func (m *Unavailable) Clone() Message {
	return &Unavailable{
		ErrorMessage: m.ErrorMessage,
		Consistency:  m.Consistency,
		Required:     m.Required,
		Alive:        m.Alive,
	}
}

// READ TIMEOUT

type ReadTimeout struct {
	ErrorMessage string
	Consistency  primitive.ConsistencyLevel
	Received     int32
	BlockFor     int32
	DataPresent  bool
}

func (m *ReadTimeout) IsResponse() bool { return true }

func (m *ReadTimeout) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *ReadTimeout) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeReadTimeout }

func (m *ReadTimeout) GetErrorMessage() string { return m.ErrorMessage }

func (m *ReadTimeout) String() string {
	return fmt.Sprintf(
		"ERROR READ TIMEOUT (code=%v, msg=%v, cl=%v, received=%v, blockfor=%v, data=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Consistency, m.Received, m.BlockFor, m.DataPresent,
	)
}

func (m *ReadTimeout) Clone() Message {
	return &ReadTimeout{
		ErrorMessage: m.ErrorMessage,
		Consistency:  m.Consistency,
		Received:     m.Received,
		BlockFor:     m.BlockFor,
		DataPresent:  m.DataPresent,
	}
}

// WRITE TIMEOUT

type WriteTimeout struct {
	ErrorMessage string
	Consistency  primitive.ConsistencyLevel
	Received     int32
	BlockFor     int32
	WriteType    primitive.WriteType
	// Only present when WriteType is "CAS".
	Contentions uint16
}

func (m *WriteTimeout) IsResponse() bool { return true }

func (m *WriteTimeout) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *WriteTimeout) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeWriteTimeout }

func (m *WriteTimeout) GetErrorMessage() string { return m.ErrorMessage }

func (m *WriteTimeout) String() string {
	return fmt.Sprintf(
		"ERROR WRITE TIMEOUT (code=%v, msg=%v, cl=%v, received=%v, blockfor=%v, type=%v, contentions=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Consistency, m.Received, m.BlockFor, m.WriteType, m.Contentions,
	)
}

func (m *WriteTimeout) Clone() Message {
	return &WriteTimeout{
		ErrorMessage: m.ErrorMessage,
		Consistency:  m.Consistency,
		Received:     m.Received,
		BlockFor:     m.BlockFor,
		WriteType:    m.WriteType,
		Contentions:  m.Contentions,
	}
}

// READ FAILURE

// ReadFailure always reports the failure count as NumFailures; it does not
// carry the per-endpoint failure-reason map.
type ReadFailure struct {
	ErrorMessage string
	Consistency  primitive.ConsistencyLevel
	Received     int32
	BlockFor     int32
	NumFailures  int32
	DataPresent  bool
}

func (m *ReadFailure) IsResponse() bool { return true }

func (m *ReadFailure) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *ReadFailure) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeReadFailure }

func (m *ReadFailure) GetErrorMessage() string { return m.ErrorMessage }

func (m *ReadFailure) String() string {
	return fmt.Sprintf(
		"ERROR READ FAILURE (code=%v, msg=%v, cl=%v, received=%v, blockfor=%v, data=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Consistency, m.Received, m.BlockFor, m.DataPresent,
	)
}

func (m *ReadFailure) Clone() Message {
	return &ReadFailure{
		ErrorMessage: m.ErrorMessage,
		Consistency:  m.Consistency,
		Received:     m.Received,
		BlockFor:     m.BlockFor,
		NumFailures:  m.NumFailures,
		DataPresent:  m.DataPresent,
	}
}

// WRITE FAILURE

type WriteFailure struct {
	ErrorMessage string
	Consistency  primitive.ConsistencyLevel
	Received     int32
	BlockFor     int32
	NumFailures  int32
	WriteType    primitive.WriteType
}

func (m *WriteFailure) IsResponse() bool { return true }

func (m *WriteFailure) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *WriteFailure) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeWriteFailure }

func (m *WriteFailure) GetErrorMessage() string { return m.ErrorMessage }

func (m *WriteFailure) String() string {
	return fmt.Sprintf(
		"ERROR WRITE FAILURE (code=%v, msg=%v, cl=%v, received=%v, blockfor=%v, type=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Consistency, m.Received, m.BlockFor, m.WriteType,
	)
}

func (m *WriteFailure) Clone() Message {
	return &WriteFailure{
		ErrorMessage: m.ErrorMessage,
		Consistency:  m.Consistency,
		Received:     m.Received,
		BlockFor:     m.BlockFor,
		NumFailures:  m.NumFailures,
		WriteType:    m.WriteType,
	}
}

// FUNCTION FAILURE

type FunctionFailure struct {
	ErrorMessage string
	Keyspace     string
	Function     string
	Arguments    []string
}

func (m *FunctionFailure) IsResponse() bool { return true }

func (m *FunctionFailure) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *FunctionFailure) GetErrorCode() primitive.ErrorCode {
	return primitive.ErrorCodeFunctionFailure
}

func (m *FunctionFailure) GetErrorMessage() string { return m.ErrorMessage }

func (m *FunctionFailure) String() string {
	return fmt.Sprintf(
		"ERROR FUNCTION FAILURE (code=%v, msg=%v, ks=%v, function=%v, args=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Keyspace, m.Function, m.Arguments,
	)
}

func (m *FunctionFailure) Clone() Message {
	return &FunctionFailure{
		ErrorMessage: m.ErrorMessage,
		Keyspace:     m.Keyspace,
		Function:     m.Function,
		Arguments:    primitive.CloneStringSlice(m.Arguments),
	}
}

// UNPREPARED

type Unprepared struct {
	ErrorMessage string
	Id           []byte
}

func (m *Unprepared) IsResponse() bool { return true }

func (m *Unprepared) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *Unprepared) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeUnprepared }

func (m *Unprepared) GetErrorMessage() string { return m.ErrorMessage }

func (m *Unprepared) String() string {
	return fmt.Sprintf("ERROR UNPREPARED (code=%v, msg=%v, id=%v)", m.GetErrorCode(), m.GetErrorMessage(), m.Id)
}

func (m *Unprepared) Clone() Message {
	return &Unprepared{ErrorMessage: m.ErrorMessage, Id: primitive.CloneByteSlice(m.Id)}
}

// ALREADY EXISTS

type AlreadyExists struct {
	ErrorMessage string
	Keyspace     string
	Table        string
}

func (m *AlreadyExists) IsResponse() bool { return true }

func (m *AlreadyExists) GetOpCode() primitive.OpCode { return primitive.OpCodeError }

func (m *AlreadyExists) GetErrorCode() primitive.ErrorCode { return primitive.ErrorCodeAlreadyExists }

func (m *AlreadyExists) GetErrorMessage() string { return m.ErrorMessage }

func (m *AlreadyExists) String() string {
	return fmt.Sprintf(
		"ERROR ALREADY EXISTS (code=%v, msg=%v, ks=%v, table=%v)",
		m.GetErrorCode(), m.GetErrorMessage(), m.Keyspace, m.Table,
	)
}

func (m *AlreadyExists) Clone() Message {
	return &AlreadyExists{ErrorMessage: m.ErrorMessage, Keyspace: m.Keyspace, Table: m.Table}
}

// CODEC

type errorCodec struct{}

func (c *errorCodec) Encode(msg Message, dest io.Writer, version primitive.ProtocolVersion) (err error) {
	errMsg, ok := msg.(Error)
	if !ok {
		return fmt.Errorf("expected protocol.Error, got %T", msg)
	}
	if err = primitive.WriteInt(int32(errMsg.GetErrorCode()), dest); err != nil {
		return fmt.Errorf("cannot write ERROR code: %w", err)
	}
	if err = primitive.WriteString(errMsg.GetErrorMessage(), dest); err != nil {
		return fmt.Errorf("cannot write ERROR message: %w", err)
	}
	switch errMsg.GetErrorCode() {
	case primitive.ErrorCodeServerError,
		primitive.ErrorCodeProtocolError,
		primitive.ErrorCodeAuthenticationError,
		primitive.ErrorCodeOverloaded,
		primitive.ErrorCodeIsBootstrapping,
		primitive.ErrorCodeTruncateError,
		primitive.ErrorCodeSyntaxError,
		primitive.ErrorCodeUnauthorized,
		primitive.ErrorCodeInvalid,
		primitive.ErrorCodeConfigError:

	case primitive.ErrorCodeUnavailable:
		unavailable, ok := errMsg.(*Unavailable)
		if !ok {
			return fmt.Errorf("expected *protocol.Unavailable, got %T", msg)
		}
		if err = primitive.WriteShort(uint16(unavailable.Consistency), dest); err != nil {
			return fmt.Errorf("cannot write ERROR UNAVAILABLE consistency: %w", err)
		} else if err = primitive.WriteInt(unavailable.Required, dest); err != nil {
			return fmt.Errorf("cannot write ERROR UNAVAILABLE required: %w", err)
		} else if err = primitive.WriteInt(unavailable.Alive, dest); err != nil {
			return fmt.Errorf("cannot write ERROR UNAVAILABLE alive: %w", err)
		}

	case primitive.ErrorCodeReadTimeout:
		readTimeout, ok := errMsg.(*ReadTimeout)
		if !ok {
			return fmt.Errorf("expected *protocol.ReadTimeout, got %T", msg)
		}
		if err = primitive.WriteShort(uint16(readTimeout.Consistency), dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ TIMEOUT consistency: %w", err)
		} else if err = primitive.WriteInt(readTimeout.Received, dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ TIMEOUT received: %w", err)
		} else if err = primitive.WriteInt(readTimeout.BlockFor, dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ TIMEOUT block for: %w", err)
		}
		if readTimeout.DataPresent {
			err = primitive.WriteByte(1, dest)
		} else {
			err = primitive.WriteByte(0, dest)
		}
		if err != nil {
			return fmt.Errorf("cannot write ERROR READ TIMEOUT data present: %w", err)
		}

	case primitive.ErrorCodeWriteTimeout:
		writeTimeout, ok := errMsg.(*WriteTimeout)
		if !ok {
			return fmt.Errorf("expected *protocol.WriteTimeout, got %T", msg)
		}
		if err = primitive.WriteShort(uint16(writeTimeout.Consistency), dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE TIMEOUT consistency: %w", err)
		} else if err = primitive.WriteInt(writeTimeout.Received, dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE TIMEOUT received: %w", err)
		} else if err = primitive.WriteInt(writeTimeout.BlockFor, dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE TIMEOUT block for: %w", err)
		} else if err = primitive.WriteString(string(writeTimeout.WriteType), dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE TIMEOUT write type: %w", err)
		} else if version.SupportsWriteTimeoutContentions() && writeTimeout.WriteType == primitive.WriteTypeCas {
			if err = primitive.WriteShort(writeTimeout.Contentions, dest); err != nil {
				return fmt.Errorf("cannot write ERROR WRITE TIMEOUT contentions: %w", err)
			}
		}

	case primitive.ErrorCodeReadFailure:
		readFailure, ok := errMsg.(*ReadFailure)
		if !ok {
			return fmt.Errorf("expected *protocol.ReadFailure, got %T", msg)
		}
		if err = primitive.WriteShort(uint16(readFailure.Consistency), dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ FAILURE consistency: %w", err)
		} else if err = primitive.WriteInt(readFailure.Received, dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ FAILURE received: %w", err)
		} else if err = primitive.WriteInt(readFailure.BlockFor, dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ FAILURE block for: %w", err)
		} else if err = primitive.WriteInt(readFailure.NumFailures, dest); err != nil {
			return fmt.Errorf("cannot write ERROR READ FAILURE num failures: %w", err)
		}
		if readFailure.DataPresent {
			err = primitive.WriteByte(1, dest)
		} else {
			err = primitive.WriteByte(0, dest)
		}
		if err != nil {
			return fmt.Errorf("cannot write ERROR READ FAILURE data present: %w", err)
		}

	case primitive.ErrorCodeWriteFailure:
		writeFailure, ok := errMsg.(*WriteFailure)
		if !ok {
			return fmt.Errorf("expected *protocol.WriteFailure, got %T", msg)
		}
		if err = primitive.WriteShort(uint16(writeFailure.Consistency), dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE FAILURE consistency: %w", err)
		} else if err = primitive.WriteInt(writeFailure.Received, dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE FAILURE received: %w", err)
		} else if err = primitive.WriteInt(writeFailure.BlockFor, dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE FAILURE block for: %w", err)
		} else if err = primitive.WriteInt(writeFailure.NumFailures, dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE FAILURE num failures: %w", err)
		} else if err = primitive.WriteString(string(writeFailure.WriteType), dest); err != nil {
			return fmt.Errorf("cannot write ERROR WRITE FAILURE write type: %w", err)
		}

	case primitive.ErrorCodeFunctionFailure:
		functionFailure, ok := errMsg.(*FunctionFailure)
		if !ok {
			return fmt.Errorf("expected *protocol.FunctionFailure, got %T", msg)
		}
		if err = primitive.WriteString(functionFailure.Keyspace, dest); err != nil {
			return fmt.Errorf("cannot write ERROR FUNCTION FAILURE keyspace: %w", err)
		} else if err = primitive.WriteString(functionFailure.Function, dest); err != nil {
			return fmt.Errorf("cannot write ERROR FUNCTION FAILURE function: %w", err)
		} else if err = primitive.WriteStringList(functionFailure.Arguments, dest); err != nil {
			return fmt.Errorf("cannot write ERROR FUNCTION FAILURE arguments: %w", err)
		}

	case primitive.ErrorCodeAlreadyExists:
		alreadyExists, ok := errMsg.(*AlreadyExists)
		if !ok {
			return fmt.Errorf("expected *protocol.AlreadyExists, got %T", msg)
		}
		if err = primitive.WriteString(alreadyExists.Keyspace, dest); err != nil {
			return fmt.Errorf("cannot write ERROR ALREADY EXISTS keyspace: %w", err)
		} else if err = primitive.WriteString(alreadyExists.Table, dest); err != nil {
			return fmt.Errorf("cannot write ERROR ALREADY EXISTS table: %w", err)
		}

	case primitive.ErrorCodeUnprepared:
		unprepared, ok := errMsg.(*Unprepared)
		if !ok {
			return fmt.Errorf("expected *protocol.Unprepared, got %T", msg)
		}
		if err = primitive.WriteShortBytes(unprepared.Id, dest); err != nil {
			return fmt.Errorf("cannot write ERROR UNPREPARED id: %w", err)
		}

	default:
		err = fmt.Errorf("unknown ERROR code: %v", errMsg.GetErrorCode())
	}
	return err
}

func (c *errorCodec) EncodedLength(msg Message, version primitive.ProtocolVersion) (length int, err error) {
	errMsg, ok := msg.(Error)
	if !ok {
		return -1, fmt.Errorf("expected protocol.Error, got %T", msg)
	}
	length += primitive.LengthOfInt // error code
	length += primitive.LengthOfString(errMsg.GetErrorMessage())
	switch errMsg.GetErrorCode() {
	case primitive.ErrorCodeServerError,
		primitive.ErrorCodeProtocolError,
		primitive.ErrorCodeAuthenticationError,
		primitive.ErrorCodeOverloaded,
		primitive.ErrorCodeIsBootstrapping,
		primitive.ErrorCodeTruncateError,
		primitive.ErrorCodeSyntaxError,
		primitive.ErrorCodeUnauthorized,
		primitive.ErrorCodeInvalid,
		primitive.ErrorCodeConfigError:

	case primitive.ErrorCodeUnavailable:
		length += primitive.LengthOfShort // consistency
		length += primitive.LengthOfInt   // required
		length += primitive.LengthOfInt   // alive

	case primitive.ErrorCodeReadTimeout:
		length += primitive.LengthOfShort // consistency
		length += primitive.LengthOfInt   // received
		length += primitive.LengthOfInt   // block for
		length += primitive.LengthOfByte  // data present

	case primitive.ErrorCodeWriteTimeout:
		writeTimeout, ok := errMsg.(*WriteTimeout)
		if !ok {
			return -1, fmt.Errorf("expected *protocol.WriteTimeout, got %T", msg)
		}
		length += primitive.LengthOfShort
		length += primitive.LengthOfInt
		length += primitive.LengthOfInt
		length += primitive.LengthOfString(string(writeTimeout.WriteType))
		if version.SupportsWriteTimeoutContentions() && writeTimeout.WriteType == primitive.WriteTypeCas {
			length += primitive.LengthOfShort
		}

	case primitive.ErrorCodeReadFailure:
		length += primitive.LengthOfShort
		length += primitive.LengthOfInt
		length += primitive.LengthOfInt
		length += primitive.LengthOfByte
		length += primitive.LengthOfInt // num failures

	case primitive.ErrorCodeWriteFailure:
		writeFailure, ok := errMsg.(*WriteFailure)
		if !ok {
			return -1, fmt.Errorf("expected *protocol.WriteFailure, got %T", msg)
		}
		length += primitive.LengthOfShort
		length += primitive.LengthOfInt
		length += primitive.LengthOfInt
		length += primitive.LengthOfInt // num failures
		length += primitive.LengthOfString(string(writeFailure.WriteType))

	case primitive.ErrorCodeFunctionFailure:
		functionFailure, ok := errMsg.(*FunctionFailure)
		if !ok {
			return -1, fmt.Errorf("expected *protocol.FunctionFailure, got %T", msg)
		}
		length += primitive.LengthOfString(functionFailure.Keyspace)
		length += primitive.LengthOfString(functionFailure.Function)
		length += primitive.LengthOfStringList(functionFailure.Arguments)

	case primitive.ErrorCodeAlreadyExists:
		alreadyExists, ok := errMsg.(*AlreadyExists)
		if !ok {
			return -1, fmt.Errorf("expected *protocol.AlreadyExists, got %T", msg)
		}
		length += primitive.LengthOfString(alreadyExists.Keyspace)
		length += primitive.LengthOfString(alreadyExists.Table)

	case primitive.ErrorCodeUnprepared:
		unprepared, ok := errMsg.(*Unprepared)
		if !ok {
			return -1, fmt.Errorf("expected *protocol.Unprepared, got %T", msg)
		}
		length += primitive.LengthOfShortBytes(unprepared.Id)

	default:
		return -1, fmt.Errorf("unknown ERROR code: %v", errMsg.GetErrorCode())
	}
	return length, nil
}

func (c *errorCodec) Decode(source io.Reader, version primitive.ProtocolVersion) (msg Message, err error) {
	var code int32
	if code, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read ERROR code: %w", err)
	}
	var errorMsg string
	if errorMsg, err = primitive.ReadString(source); err != nil {
		return nil, fmt.Errorf("cannot read ERROR message: %w", err)
	}
	switch primitive.ErrorCode(code) {
	case primitive.ErrorCodeServerError:
		return &ServerError{errorMsg}, nil
	case primitive.ErrorCodeProtocolError:
		return &ProtocolError{errorMsg}, nil
	case primitive.ErrorCodeAuthenticationError:
		return &AuthenticationError{errorMsg}, nil
	case primitive.ErrorCodeOverloaded:
		return &Overloaded{errorMsg}, nil
	case primitive.ErrorCodeIsBootstrapping:
		return &IsBootstrapping{errorMsg}, nil
	case primitive.ErrorCodeTruncateError:
		return &TruncateError{errorMsg}, nil
	case primitive.ErrorCodeSyntaxError:
		return &SyntaxError{errorMsg}, nil
	case primitive.ErrorCodeUnauthorized:
		return &Unauthorized{errorMsg}, nil
	case primitive.ErrorCodeInvalid:
		return &Invalid{errorMsg}, nil
	case primitive.ErrorCodeConfigError:
		return &ConfigError{errorMsg}, nil

	case primitive.ErrorCodeUnavailable:
		msg := &Unavailable{ErrorMessage: errorMsg}
		var consistency uint16
		if consistency, err = primitive.ReadShort(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR UNAVAILABLE consistency: %w", err)
		}
		msg.Consistency = primitive.ConsistencyLevel(consistency)
		if msg.Required, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR UNAVAILABLE required: %w", err)
		}
		if msg.Alive, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR UNAVAILABLE alive: %w", err)
		}
		return msg, nil

	case primitive.ErrorCodeReadTimeout:
		msg := &ReadTimeout{ErrorMessage: errorMsg}
		var consistency uint16
		if consistency, err = primitive.ReadShort(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ TIMEOUT consistency: %w", err)
		}
		msg.Consistency = primitive.ConsistencyLevel(consistency)
		if msg.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ TIMEOUT received: %w", err)
		}
		if msg.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ TIMEOUT block for: %w", err)
		}
		var b byte
		if b, err = primitive.ReadByte(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ TIMEOUT data present: %w", err)
		}
		msg.DataPresent = b > 0
		return msg, nil

	case primitive.ErrorCodeWriteTimeout:
		msg := &WriteTimeout{ErrorMessage: errorMsg}
		var consistency uint16
		if consistency, err = primitive.ReadShort(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE TIMEOUT consistency: %w", err)
		}
		msg.Consistency = primitive.ConsistencyLevel(consistency)
		if msg.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE TIMEOUT received: %w", err)
		}
		if msg.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE TIMEOUT block for: %w", err)
		}
		var writeType string
		if writeType, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE TIMEOUT write type: %w", err)
		}
		msg.WriteType = primitive.WriteType(writeType)
		if msg.WriteType == primitive.WriteTypeCas && version.SupportsWriteTimeoutContentions() {
			if msg.Contentions, err = primitive.ReadShort(source); err != nil {
				return nil, fmt.Errorf("cannot read ERROR WRITE TIMEOUT contentions: %w", err)
			}
		}
		return msg, nil

	case primitive.ErrorCodeReadFailure:
		msg := &ReadFailure{ErrorMessage: errorMsg}
		var consistency uint16
		if consistency, err = primitive.ReadShort(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ FAILURE consistency: %w", err)
		}
		msg.Consistency = primitive.ConsistencyLevel(consistency)
		if msg.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ FAILURE received: %w", err)
		}
		if msg.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ FAILURE block for: %w", err)
		}
		if msg.NumFailures, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ FAILURE num failures: %w", err)
		}
		var b byte
		if b, err = primitive.ReadByte(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR READ FAILURE data present: %w", err)
		}
		msg.DataPresent = b > 0
		return msg, nil

	case primitive.ErrorCodeWriteFailure:
		msg := &WriteFailure{ErrorMessage: errorMsg}
		var consistency uint16
		if consistency, err = primitive.ReadShort(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE FAILURE consistency: %w", err)
		}
		msg.Consistency = primitive.ConsistencyLevel(consistency)
		if msg.Received, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE FAILURE received: %w", err)
		}
		if msg.BlockFor, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE FAILURE block for: %w", err)
		}
		if msg.NumFailures, err = primitive.ReadInt(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE FAILURE num failures: %w", err)
		}
		var writeType string
		if writeType, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR WRITE FAILURE write type: %w", err)
		}
		msg.WriteType = primitive.WriteType(writeType)
		if err = primitive.CheckValidWriteType(msg.WriteType); err != nil {
			return nil, err
		}
		return msg, nil

	case primitive.ErrorCodeFunctionFailure:
		msg := &FunctionFailure{ErrorMessage: errorMsg}
		if msg.Keyspace, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR FUNCTION FAILURE keyspace: %w", err)
		}
		if msg.Function, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR FUNCTION FAILURE function: %w", err)
		}
		if msg.Arguments, err = primitive.ReadStringList(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR FUNCTION FAILURE arguments: %w", err)
		}
		return msg, nil

	case primitive.ErrorCodeAlreadyExists:
		msg := &AlreadyExists{ErrorMessage: errorMsg}
		if msg.Keyspace, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR ALREADY EXISTS keyspace: %w", err)
		}
		if msg.Table, err = primitive.ReadString(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR ALREADY EXISTS table: %w", err)
		}
		return msg, nil

	case primitive.ErrorCodeUnprepared:
		msg := &Unprepared{ErrorMessage: errorMsg}
		if msg.Id, err = primitive.ReadShortBytes(source); err != nil {
			return nil, fmt.Errorf("cannot read ERROR UNPREPARED id: %w", err)
		}
		return msg, nil

	default:
		err = fmt.Errorf("unknown ERROR code: %v", code)
	}
	return msg, err
}

func (c *errorCodec) GetOpCode() primitive.OpCode {
	return primitive.OpCodeError
}
