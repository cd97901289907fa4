package logger

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// Attr helpers pin the log keys the platform greps by. Every tenant id in
// every record is "tenant_id", every error is "error"; code that bypasses
// these helpers and invents its own key breaks that guarantee.

// Group nests attrs under one key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error", or nothing when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors records the non-nil errors as an indexed group under "errors",
// or nothing when every error is nil.
func Errors(errs ...error) slog.Attr {
	var group []slog.Attr
	for i, err := range errs {
		if err != nil {
			group = append(group, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(group) == 0 {
		return slog.Attr{}
	}
	return Group("errors", group...)
}

// TenantID records the organization under "tenant_id". The zero uuid is
// logged as-is: on elevated-access records it marks platform scope.
func TenantID(id uuid.UUID) slog.Attr {
	return slog.String("tenant_id", id.String())
}

// PrincipalID records the acting caller under "principal_id".
func PrincipalID(id uuid.UUID) slog.Attr {
	return slog.String("principal_id", id.String())
}

// Role records a role under "role", or nothing when it is empty.
func Role[T ~string](role T) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", string(role))
}

// RequestID records the request correlation id under "request_id", or
// nothing when the request never passed the requestid middleware.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Entity records a protected entity name under "entity".
func Entity(name string) slog.Attr { return slog.String("entity", name) }

// Operation records a data operation under "operation".
func Operation(name string) slog.Attr { return slog.String("operation", name) }

// Outcome records an access outcome under "outcome".
func Outcome(name string) slog.Attr { return slog.String("outcome", name) }

// Component records the emitting component under "component".
func Component(name string) slog.Attr { return slog.String("component", name) }
