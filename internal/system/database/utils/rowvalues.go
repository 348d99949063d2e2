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

// Package utils converts driver-specific row values into Go types.
package utils

import (
	"fmt"
	"strconv"
)

// ToInt64 converts a column value to int64.
// MySQL returns text protocol values as strings, sqlite and pgx return int64.
func ToInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", value)
	}
}

// ToNullableInt64 converts a column value to *int64, mapping NULL to nil.
func ToNullableInt64(value interface{}) (*int64, error) {
	if value == nil {
		return nil, nil
	}
	v, err := ToInt64(value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ToString converts a column value to string, mapping NULL to "".
func ToString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToNullableString converts a column value to *string, mapping NULL to nil.
func ToNullableString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := ToString(value)
	return &s
}

// NullIfEmpty maps "" to nil so it is stored as NULL.
func NullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
