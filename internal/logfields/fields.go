/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log Fields.
const (
	FieldAdditionalMessage = "additionalMessage"
	FieldClientID          = "clientID"
	FieldCredentialFormat  = "credentialFormat"
	FieldCredentialCount   = "credentialCount"
	FieldFlowVariant       = "flowVariant"
	FieldGrantType         = "grantType"
	FieldSessionID         = "sessionID"
	FieldStatusListIndex   = "statusListIndex"
	FieldStatusListURI     = "statusListURI"
	FieldStep              = "step"
	FieldUserLogLevel      = "userLogLevel"
	FieldKeyThumbprint     = "jkt"
	FieldRetryCount        = "retryCount"
	FieldOptions           = "options"
)

// WithAdditionalMessage sets the AdditionalMessage field.
func WithAdditionalMessage(value string) zap.Field {
	return zap.Any(FieldAdditionalMessage, value)
}

// WithClientID sets the ClientID field.
func WithClientID(clientID string) zap.Field {
	return zap.String(FieldClientID, clientID)
}

// WithCredentialFormat sets the CredentialFormat field.
func WithCredentialFormat(format string) zap.Field {
	return zap.String(FieldCredentialFormat, format)
}

// WithCredentialCount sets the number of credentials issued by one request.
func WithCredentialCount(count int) zap.Field {
	return zap.Int(FieldCredentialCount, count)
}

// WithFlowVariant sets the FlowVariant field.
func WithFlowVariant(variant string) zap.Field {
	return zap.String(FieldFlowVariant, variant)
}

// WithGrantType sets the GrantType field.
func WithGrantType(grantType string) zap.Field {
	return zap.String(FieldGrantType, grantType)
}

// WithSessionID sets the SessionID field.
func WithSessionID(sessionID string) zap.Field {
	return zap.String(FieldSessionID, sessionID)
}

// WithStatusListIndex sets the StatusListIndex field.
func WithStatusListIndex(idx int) zap.Field {
	return zap.Int(FieldStatusListIndex, idx)
}

// WithStatusListURI sets the StatusListURI field.
func WithStatusListURI(uri string) zap.Field {
	return zap.String(FieldStatusListURI, uri)
}

// WithStep sets the Step field.
func WithStep(step string) zap.Field {
	return zap.String(FieldStep, step)
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(logLevel string) zap.Field {
	return zap.String(FieldUserLogLevel, logLevel)
}

// WithKeyThumbprint sets the JWK thumbprint field.
func WithKeyThumbprint(jkt string) zap.Field {
	return zap.String(FieldKeyThumbprint, jkt)
}

// WithRetryCount sets the RetryCount field.
func WithRetryCount(count int) zap.Field {
	return zap.Int(FieldRetryCount, count)
}

// WithOptions sets the Options field.
func WithOptions(options interface{}) zap.Field {
	return zap.Inline(NewObjectMarshaller(FieldOptions, options))
}

// ObjectMarshaller uses reflection to marshal an object's fields.
type ObjectMarshaller struct {
	key string
	obj interface{}
}

// NewObjectMarshaller returns a new ObjectMarshaller.
func NewObjectMarshaller(key string, obj interface{}) *ObjectMarshaller {
	return &ObjectMarshaller{key: key, obj: obj}
}

// MarshalLogObject marshals the object's fields.
func (m *ObjectMarshaller) MarshalLogObject(e zapcore.ObjectEncoder) error {
	return e.AddReflected(m.key, m.obj)
}
