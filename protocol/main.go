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

// DefaultMessageCodecs lists a Codec for every request and response opcode defined by protocol versions 3
// through 5. It is the registry frame.Codec uses unless the caller supplies its own.
var DefaultMessageCodecs = []Codec{
	&startupCodec{},
	&optionsCodec{},
	&queryCodec{},
	&prepareCodec{},
	&executeCodec{},
	&registerCodec{},
	&batchCodec{},
	&authResponseCodec{},
	&errorCodec{},
	&readyCodec{},
	&authenticateCodec{},
	&supportedCodec{},
	&resultCodec{},
	&eventCodec{},
	&authChallengeCodec{},
	&authSuccessCodec{},
}
