/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package attributeutil

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.opentelemetry.io/otel/attribute"
)

const redacted = "[REDACTED]"

// JSON returns attribute with the value marshaled to JSON. Value can be redacted using WithRedacted option.
func JSON(key string, value interface{}, opts ...Opt) attribute.KeyValue {
	op := newOptions(opts)

	b, err := json.Marshal(value)
	if err != nil {
		return attribute.KeyValue{
			Key:   attribute.Key(key),
			Value: attribute.Value{},
		}
	}

	for _, path := range op.redacted {
		if gjson.GetBytes(b, path).Exists() {
			b, _ = sjson.SetBytes(b, path, redacted)
		}
	}

	return attribute.KeyValue{
		Key:   attribute.Key(key),
		Value: attribute.StringValue(string(b)),
	}
}

// FormParams returns attribute with value represented as form params sorted by name. Values of the
// redacted params are replaced.
func FormParams(key string, params map[string][]string, opts ...Opt) attribute.KeyValue {
	op := newOptions(opts)

	names := lo.Keys(params)
	sort.Strings(names)

	pairs := make([]string, 0, len(names))

	for _, name := range names {
		value := strings.Join(params[name], ",")
		if lo.Contains(op.redacted, name) {
			value = redacted
		}

		pairs = append(pairs, name+"="+value)
	}

	return attribute.KeyValue{
		Key:   attribute.Key(key),
		Value: attribute.StringValue(strings.Join(pairs, "&")),
	}
}

type options struct {
	redacted []string
}

func newOptions(opts []Opt) *options {
	op := &options{}

	for _, opt := range opts {
		opt(op)
	}

	return op
}

type Opt func(*options)

// WithRedacted returns option that replaces value with [REDACTED] for the given keys. In case of JSON attribute,
// a key is a path to the value to be redacted. Refer to https://github.com/tidwall/gjson/blob/master/SYNTAX.md
// for path syntax.
func WithRedacted(keys ...string) Opt {
	return func(o *options) {
		o.redacted = append(o.redacted, keys...)
	}
}
