// Copyright 2022 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidType is thrown when there is an unexpected type at some part of
	// the execution tree.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrColumnNotFound is returned when a column handle does not belong to the
	// table it is read from.
	ErrColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrInvalidFieldPath is returned when a nested field path does not match
	// the shape of the value it is applied to.
	ErrInvalidFieldPath = errors.NewKind("invalid field path %v for column %q: %s")

	// ErrUnexpectedRowLength is thrown when the obtained row has more columns than expected.
	ErrUnexpectedRowLength = errors.NewKind("expected %d values, got %d")
)
