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

package connection

import (
	"regexp"
	"strconv"

	"github.com/nativecql/corecql/primitive"
)

// protocolErrorVersionPattern matches the version numbers Cassandra embeds in a PROTOCOL_ERROR message sent in
// response to a STARTUP using a version the coordinator refuses to speak, e.g.:
//
//	"Invalid or unsupported protocol version (5); the lowest supported version is 3 and the greatest is 4"
//	"Beta version of the protocol used (5/v5-beta), but USE_BETA flag is unset"
var protocolErrorVersionPattern = regexp.MustCompile(`\((\d+)(?:/v\d+(?:-beta)?)?\)`)

// parseProtocolDowngrade inspects a PROTOCOL_ERROR's message for a server-advertised maximum protocol version and
// returns the highest supported version strictly lower than attempted that the server is likely to accept. It
// returns false when no usable downgrade target could be determined, in which case the caller should give up
// rather than loop forever retrying the same rejected version.
//
// Cassandra does not give drivers a structured field for this; every native driver parses the free-text message,
// so this is not a workaround specific to this module.
func parseProtocolDowngrade(errorMessage string, attempted primitive.ProtocolVersion) (primitive.ProtocolVersion, bool) {
	matches := protocolErrorVersionPattern.FindAllStringSubmatch(errorMessage, -1)
	var best primitive.ProtocolVersion
	found := false
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		candidate := primitive.ProtocolVersion(n)
		if candidate >= attempted || !candidate.IsSupported() {
			continue
		}
		if !found || candidate > best {
			best = candidate
			found = true
		}
	}
	if found {
		return best, true
	}
	// Fall back to the next lower version this library knows how to speak; still better than giving up outright
	// when the server's message didn't parse (e.g. a translated or customized error string).
	for _, v := range primitive.SupportedProtocolVersionsLesserThan(attempted) {
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}
