/* Copyright 2025 Medtrack Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crypt

import (
	"encoding/base64"
	"testing"

	"github.com/medtrack/medtrack/pkg/assert"
)

func TestGetRandomStr(t *testing.T) {
	a, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.URLEncoding.DecodeString(a)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(decoded), 32, "length mismatch")
	assert.NotEqual(t, a, b, "keys collide")
}
