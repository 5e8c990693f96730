package converter

import (
	"strings"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/service"
)

const (
	websocketModule   = "websocket"
	serviceConfigName = "ServiceConfig"
	dispatcherKeyName = "dispatcherKey"
)

// ExtractDispatcherKey reads the dispatcherKey field of the service's
// @websocket:ServiceConfig annotation. Double quotes are removed from the
// value. Every annotation is scanned, so the config may follow others.
func ExtractDispatcherKey(svc *service.Service) (string, error) {
	if len(svc.Annotations) == 0 {
		return "", &asyncerrors.DispatchError{Service: svc.BasePath, Message: "service has no annotations"}
	}
	ann, ok := service.FindAnnotation(svc.Annotations, websocketModule, serviceConfigName)
	if !ok {
		return "", &asyncerrors.DispatchError{Service: svc.BasePath, Message: "no @websocket:ServiceConfig annotation"}
	}
	raw, ok := ann.Field(dispatcherKeyName)
	if !ok {
		return "", &asyncerrors.DispatchError{Service: svc.BasePath, Message: "@websocket:ServiceConfig has no dispatcherKey field"}
	}
	key := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if key == "" {
		return "", &asyncerrors.DispatchError{Service: svc.BasePath, Message: "dispatcherKey value cannot be empty"}
	}
	return key, nil
}
