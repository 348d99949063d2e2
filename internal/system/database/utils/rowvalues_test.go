/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int64
		wantErr bool
	}{
		{name: "int64", value: int64(42), want: 42},
		{name: "int32", value: int32(7), want: 7},
		{name: "bytes", value: []byte("1700000000"), want: 1700000000},
		{name: "string", value: "3", want: 3},
		{name: "float", value: float64(9), want: 9},
		{name: "null", value: nil, wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "unsupported", value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt64(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullableConversions(t *testing.T) {
	n, err := ToNullableInt64(nil)
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ToNullableInt64(int64(2))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(2), *n)

	assert.Nil(t, ToNullableString(nil))
	assert.Equal(t, "recalled", *ToNullableString([]byte("recalled")))
	assert.Equal(t, "", ToString(nil))
	assert.Nil(t, NullIfEmpty(""))
	assert.Equal(t, "0xabc", NullIfEmpty("0xabc"))
}
