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
	"errors"
	"fmt"
	"io"

	"github.com/nativecql/corecql/primitive"
)

const (
	StartupOptionCqlVersion = "CQL_VERSION"
	StartupOptionCompression = "COMPRESSION"

	defaultCqlVersion = "3.0.0"
)

// Startup is the first message a client sends once a connection is opened. It requests the server to start the
// CQL session and is answered with either Ready or Authenticate.
type Startup struct {
	Options map[string]string
}

// NewStartup builds a Startup with CQL_VERSION defaulted to "3.0.0", then applies the given key/value pairs
// over it. An odd number of arguments is a programming error and panics.
func NewStartup(keysAndValues ...string) *Startup {
	if len(keysAndValues)%2 != 0 {
		panic("NewStartup: odd number of key/value arguments")
	}
	options := map[string]string{StartupOptionCqlVersion: defaultCqlVersion}
	for i := 0; i < len(keysAndValues); i += 2 {
		options[keysAndValues[i]] = keysAndValues[i+1]
	}
	return &Startup{Options: options}
}

func (m *Startup) IsResponse() bool {
	return false
}

func (m *Startup) GetOpCode() primitive.OpCode {
	return primitive.OpCodeStartup
}

func (m *Startup) String() string {
	return fmt.Sprint("STARTUP ", m.Options)
}

func (m *Startup) Clone() Message {
	return &Startup{Options: primitive.CloneOptions(m.Options)}
}

type startupCodec struct{}

func (c *startupCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	startup, ok := msg.(*Startup)
	if !ok {
		return errors.New(fmt.Sprintf("expected *protocol.Startup, got %T", msg))
	}
	return primitive.WriteStringMap(startup.Options, dest)
}

func (c *startupCodec) EncodedLength(msg Message, _ primitive.ProtocolVersion) (int, error) {
	startup, ok := msg.(*Startup)
	if !ok {
		return -1, errors.New(fmt.Sprintf("expected *protocol.Startup, got %T", msg))
	}
	return primitive.LengthOfStringMap(startup.Options), nil
}

func (c *startupCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	options, err := primitive.ReadStringMap(source)
	if err != nil {
		return nil, err
	}
	return &Startup{Options: options}, nil
}

func (c *startupCodec) GetOpCode() primitive.OpCode {
	return primitive.OpCodeStartup
}
