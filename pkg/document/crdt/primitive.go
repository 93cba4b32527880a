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

// ValueType represents the type of a Primitive or Counter's value.
type ValueType int

const (
	// ValueTypeNull represents a JSON null.
	ValueTypeNull ValueType = iota
	// ValueTypeBoolean represents a JSON boolean.
	ValueTypeBoolean
	// ValueTypeInteger represents a 32-bit integer.
	ValueTypeInteger
	// ValueTypeLong represents a 64-bit integer.
	ValueTypeLong
	// ValueTypeDouble represents a 64-bit float.
	ValueTypeDouble
	// ValueTypeString represents a UTF-8 string.
	ValueTypeString
	// ValueTypeBytes represents an opaque byte slice.
	ValueTypeBytes
)

// IsNumericType reports whether t is one of the Counter-eligible numeric
// types.
func (t ValueType) IsNumericType() bool {
	return t == ValueTypeInteger || t == ValueTypeLong || t == ValueTypeDouble
}

// Primitive represents a last-writer-wins scalar value: the simplest
// CRDT node, resolved purely by comparing creation tickets.
type Primitive struct {
	valueType ValueType
	value     interface{}
	createdAt *time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewPrimitive creates a new instance of Primitive from a native Go value.
func NewPrimitive(value interface{}, createdAt *time.Ticket) (*Primitive, error) {
	valueType, err := valueTypeOf(value)
	if err != nil {
		return nil, err
	}
	return &Primitive{
		valueType: valueType,
		value:     value,
		createdAt: createdAt,
	}, nil
}

func valueTypeOf(value interface{}) (ValueType, error) {
	switch value.(type) {
	case nil:
		return ValueTypeNull, nil
	case bool:
		return ValueTypeBoolean, nil
	case int32:
		return ValueTypeInteger, nil
	case int:
		return ValueTypeInteger, nil
	case int64:
		return ValueTypeLong, nil
	case float64:
		return ValueTypeDouble, nil
	case string:
		return ValueTypeString, nil
	case []byte:
		return ValueTypeBytes, nil
	default:
		return ValueTypeNull, fmt.Errorf("%T: %w", value, ErrUnsupportedValueType)
	}
}

// ValueType returns the type of this primitive's value.
func (p *Primitive) ValueType() ValueType {
	return p.valueType
}

// Value returns the raw value of this primitive.
func (p *Primitive) Value() interface{} {
	return p.value
}

// CreatedAt returns the creation ticket.
func (p *Primitive) CreatedAt() *time.Ticket {
	return p.createdAt
}

// MovedAt returns the last move ticket, if any.
func (p *Primitive) MovedAt() *time.Ticket {
	return p.movedAt
}

// SetMovedAt sets the move ticket of this primitive.
func (p *Primitive) SetMovedAt(movedAt *time.Ticket) {
	p.movedAt = movedAt
}

// RemovedAt returns the tombstone ticket, if any.
func (p *Primitive) RemovedAt() *time.Ticket {
	return p.removedAt
}

// Remove tombstones this primitive if removedAt wins over any existing
// moved/removed ticket.
func (p *Primitive) Remove(removedAt *time.Ticket) bool {
	if removedAt != nil && (p.movedAt == nil || removedAt.After(p.movedAt)) &&
		(p.removedAt == nil || removedAt.After(p.removedAt)) {
		p.removedAt = removedAt
		return true
	}
	return false
}

// DeepCopy returns a deep copy of this primitive.
func (p *Primitive) DeepCopy() (Element, error) {
	return &Primitive{
		valueType: p.valueType,
		value:     p.value,
		createdAt: p.createdAt,
		movedAt:   p.movedAt,
		removedAt: p.removedAt,
	}, nil
}

// Marshal returns the canonical JSON encoding of this primitive's value.
func (p *Primitive) Marshal() string {
	switch p.valueType {
	case ValueTypeNull:
		return "null"
	case ValueTypeBoolean:
		return strconv.FormatBool(p.value.(bool))
	case ValueTypeInteger:
		switch v := p.value.(type) {
		case int32:
			return strconv.FormatInt(int64(v), 10)
		case int:
			return strconv.FormatInt(int64(v), 10)
		}
		return "0"
	case ValueTypeLong:
		return strconv.FormatInt(p.value.(int64), 10)
	case ValueTypeDouble:
		return strconv.FormatFloat(p.value.(float64), 'g', -1, 64)
	case ValueTypeString:
		return marshalString(p.value.(string))
	case ValueTypeBytes:
		return marshalString(fmt.Sprintf("%x", p.value.([]byte)))
	default:
		return "null"
	}
}

// DataSize estimates the byte footprint of this primitive.
func (p *Primitive) DataSize() DataSize {
	data := 0
	switch p.valueType {
	case ValueTypeNull:
		data = 0
	case ValueTypeBoolean:
		data = 1
	case ValueTypeInteger:
		data = 4
	case ValueTypeLong, ValueTypeDouble:
		data = 8
	case ValueTypeString:
		data = len(p.value.(string))
	case ValueTypeBytes:
		data = len(p.value.([]byte))
	}
	return DataSize{Data: data, Meta: ticketMetaSize}
}
