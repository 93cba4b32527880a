/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
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

package crdt

import (
	"fmt"
	"strconv"

	"github.com/hugehoo/yorkie-client/pkg/document/time"
)

// Counter is a numeric CRDT whose width (int32, int64 or double) is fixed
// at creation. Concurrent increases merge commutatively by summing all
// deltas; integer widths wrap on overflow using two's complement, the
// same as a native Go arithmetic overflow.
type Counter struct {
	valueType ValueType
	value     interface{}
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewCounter creates a new instance of Counter. valueType must be one of
// the numeric ValueTypes.
func NewCounter(valueType ValueType, value interface{}, createdAt *time.Ticket) (*Counter, error) {
	if !valueType.IsNumericType() {
		return nil, fmt.Errorf("counter value type %v: %w", valueType, ErrUnsupportedValueType)
	}
	return &Counter{
		valueType: valueType,
		value:     normalizeCounterValue(valueType, value),
		createdAt: createdAt,
	}, nil
}

func normalizeCounterValue(valueType ValueType, value interface{}) interface{} {
	switch valueType {
	case ValueTypeInteger:
		switch v := value.(type) {
		case int32:
			return v
		case int:
			return int32(v)
		case int64:
			return int32(v)
		case float64:
			return int32(v)
		}
	case ValueTypeLong:
		switch v := value.(type) {
		case int64:
			return v
		case int32:
			return int64(v)
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	case ValueTypeDouble:
		switch v := value.(type) {
		case float64:
			return v
		case int32:
			return float64(v)
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return value
}

// ValueType returns the fixed numeric type of this counter.
func (c *Counter) ValueType() ValueType {
	return c.valueType
}

// Value returns the current numeric value as its native Go type.
func (c *Counter) Value() interface{} {
	return c.value
}

// CreatedAt returns the creation ticket.
func (c *Counter) CreatedAt() *time.Ticket {
	return c.createdAt
}

// MovedAt returns the last move ticket, if any.
func (c *Counter) MovedAt() *time.Ticket {
	return c.movedAt
}

// SetMovedAt sets the move ticket of this counter.
func (c *Counter) SetMovedAt(movedAt *time.Ticket) {
	c.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket, if any.
func (c *Counter) RemovedAt() *time.Ticket {
	return c.removedAt
}

// Remove tombstones this counter if removedAt wins over any existing
// moved/removed ticket.
func (c *Counter) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (c.movedAt == nil || removedAt.After(c.movedAt)) &&
		(c.removedAt == nil || removedAt.After(c.removedAt)) {
		c.removedAt = removedAt
		return true
	}
	return false
}

// Increase applies delta to this counter's value. delta must carry the
// same numeric width the counter was created with; it is commutative, so
// two concurrent Increase calls merge to the sum of both deltas
// regardless of arrival order. Integer overflow wraps around exactly as
// native Go arithmetic does.
func (c *Counter) Increase(delta *Primitive) error {
	if delta.ValueType() != c.valueType {
		return fmt.Errorf(
			"increase %v into counter of type %v: %w",
			delta.ValueType(), c.valueType, ErrCounterTypeMismatch,
		)
	}

	switch c.valueType {
	case ValueTypeInteger:
		c.value = c.value.(int32) + delta.Value().(int32)
	case ValueTypeLong:
		c.value = c.value.(int64) + delta.Value().(int64)
	case ValueTypeDouble:
		c.value = c.value.(float64) + delta.Value().(float64)
	}
	return nil
}

// DeepCopy returns a deep copy of this counter.
func (c *Counter) DeepCopy() (Element, error) {
	return &Counter{
		valueType: c.valueType,
		value:     c.value,
		createdAt: c.createdAt,
		movedAt:   c.movedAt,
		removedAt: c.removedAt,
	}, nil
}

// Marshal returns the canonical JSON encoding of this counter's value.
func (c *Counter) Marshal() string {
	switch c.valueType {
	case ValueTypeInteger:
		return strconv.FormatInt(int64(c.value.(int32)), 10)
	case ValueTypeLong:
		return strconv.FormatInt(c.value.(int64), 10)
	case ValueTypeDouble:
		return strconv.FormatFloat(c.value.(float64), 'g', -1, 64)
	default:
		return "0"
	}
}

// DataSize estimates the byte footprint of this counter.
func (c *Counter) DataSize() DataSize {
	data := 8
	if c.valueType == ValueTypeInteger {
		data = 4
	}
	return DataSize{Data: data, Meta: ticketMetaSize}
}
