package converter

import (
	"fmt"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

const (
	responseExtension     = "x-response"
	responseTypeExtension = "x-response-type"

	// ResponseTypeSimpleRPC marks handlers that answer with one message.
	ResponseTypeSimpleRPC = "simple-rpc"
	// ResponseTypeStreaming marks handlers that answer with a stream.
	ResponseTypeStreaming = "streaming"
)

// lifecycleHandlers are remote functions driven by the connection rather
// than by dispatched messages.
var lifecycleHandlers = map[string]bool{
	"onOpen":          true,
	"onClose":         true,
	"onError":         true,
	"onIdleTimeout":   true,
	"onPing":          true,
	"onPong":          true,
	"onTextMessage":   true,
	"onBinaryMessage": true,
	"onMessage":       true,
}

// walker accumulates the channels and components of one service.
type walker struct {
	module   *service.Module
	svc      *service.Service
	key      string
	channels map[string]*parser.Channel
	messages map[string]*parser.Message
	schemas  *schemaMapper
	issues   []ConversionIssue
}

func newWalker(m *service.Module, svc *service.Service, key string) *walker {
	w := &walker{
		module:   m,
		svc:      svc,
		key:      key,
		channels: make(map[string]*parser.Channel),
		messages: make(map[string]*parser.Message),
	}
	w.schemas = newSchemaMapper(m, &w.issues)
	return w
}

func (w *walker) addIssue(path, message string, sev Severity) {
	w.issues = append(w.issues, ConversionIssue{Path: path, Message: message, Severity: sev})
}

func (w *walker) walk() {
	for _, member := range w.svc.Members {
		res, ok := member.(*service.ResourceFunction)
		if !ok {
			continue
		}
		w.resource(res)
	}
	if len(w.channels) == 0 {
		w.addIssue("channels", "service declares no get resource; document has no channels", SeverityWarning)
	}
}

func (w *walker) resource(res *service.ResourceFunction) {
	name := res.Channel(w.svc.BasePath)
	path := "channels." + name
	if res.Accessor != "get" {
		w.addIssue(path, fmt.Sprintf("resource accessor %q cannot upgrade to a websocket; skipped", res.Accessor), SeverityWarning)
		return
	}
	if _, dup := w.channels[name]; dup {
		w.addIssue(path, "duplicate channel; later resource skipped", SeverityWarning)
		return
	}

	ch := &parser.Channel{Description: strings.TrimSpace(res.Doc)}
	w.channelParameters(ch, res, path)
	w.channelBindings(ch, res, path)
	w.channels[name] = ch

	class := w.serviceClass(res, path)
	if class == nil {
		return
	}
	var published, subscribed []string
	for _, fn := range class.RemoteFunctions() {
		pub, sub, ok := w.handler(fn, path)
		if !ok {
			continue
		}
		published = appendUnique(published, pub)
		for _, s := range sub {
			subscribed = appendUnique(subscribed, s)
		}
	}
	if len(published) > 0 {
		ch.Publish = &parser.Operation{Message: messageRefs(published)}
	}
	if len(subscribed) > 0 {
		ch.Subscribe = &parser.Operation{Message: messageRefs(subscribed)}
	}
	if ch.Publish == nil && ch.Subscribe == nil {
		w.addIssue(path, fmt.Sprintf("service class %s has no dispatchable remote functions", class.Name), SeverityWarning)
	}
}

// serviceClass returns the class the resource hands the connection to.
// Qualified members of the return type, such as websocket:UpgradeError,
// are ignored.
func (w *walker) serviceClass(res *service.ResourceFunction, path string) *service.Class {
	var named service.Named
	found := false
	candidates := []service.TypeRef{service.StripError(res.Returns)}
	if u, ok := candidates[0].(service.Union); ok {
		candidates = u.Members
	}
	for _, c := range candidates {
		if n, ok := c.(service.Named); ok && !n.IsQualified() {
			named, found = n, true
			break
		}
	}
	if !found {
		desc := "nothing"
		if res.Returns != nil {
			desc = res.Returns.String()
		}
		w.addIssue(path, fmt.Sprintf("resource returns %s, not a service class of the module", desc), SeverityWarning)
		return nil
	}
	class := w.module.Class(named.Name)
	if class == nil {
		w.addIssue(path, fmt.Sprintf("service class %s is not defined in the module", named.Name), SeverityWarning)
		return nil
	}
	if !class.IsService() {
		w.addIssue(path, fmt.Sprintf("class %s is not declared as a service class", class.Name), SeverityInfo)
	}
	return class
}

func (w *walker) channelParameters(ch *parser.Channel, res *service.ResourceFunction, path string) {
	for _, p := range res.PathParams() {
		if ch.Parameters == nil {
			ch.Parameters = make(map[string]*parser.Parameter)
		}
		ch.Parameters[p.Name] = &parser.Parameter{
			Schema: w.schemas.schemaFor(p.Type, path+".parameters."+p.Name),
		}
	}
}

// channelBindings maps resource parameters onto bindings.ws query and
// headers. Parameters of types defined in other modules (the upgrade
// request, for example) are not part of the handshake contract.
func (w *walker) channelBindings(ch *parser.Channel, res *service.ResourceFunction, path string) {
	query := newBindingSchema()
	headers := newBindingSchema()
	for _, p := range res.Params {
		if n, ok := p.Type.(service.Named); ok && n.IsQualified() {
			w.addIssue(path+".bindings.ws", fmt.Sprintf("parameter %s of type %s skipped", p.Name, n), SeverityInfo)
			continue
		}
		target, name, loc := query, naming.Unescape(p.Name), "query"
		if ann, ok := service.FindAnnotation(p.Annotations, "http", "Header"); ok {
			target, loc = headers, "headers"
			if v, ok := ann.Field("name"); ok && naming.StripQuotes(v) != "" {
				name = naming.StripQuotes(v)
			}
		}
		_, optional := p.Type.(service.Optional)
		s := w.schemas.schemaFor(p.Type, path+".bindings.ws."+loc+"."+name)
		if p.Default != "" {
			s.Default = literalValue(p.Default)
		}
		if p.Doc != "" {
			s.Description = strings.TrimSpace(p.Doc)
		}
		target.add(name, s, !optional && p.Default == "")
	}
	ws := map[string]any{"method": "GET"}
	if !query.empty() {
		ws["query"] = query.value()
	}
	if !headers.empty() {
		ws["headers"] = headers.value()
	}
	ch.Bindings = &parser.ChannelBindings{WS: ws}
}

// handler maps one remote function. It returns the published message and
// the response messages, or false when the function is skipped.
func (w *walker) handler(fn *service.RemoteFunction, channelPath string) (string, []string, bool) {
	path := channelPath + "." + fn.Name
	if lifecycleHandlers[fn.Name] {
		w.addIssue(path, "lifecycle handler skipped", SeverityInfo)
		return "", nil, false
	}
	base, ok := naming.TrimHandlerPrefix(fn.Name)
	if !ok {
		w.addIssue(path, "remote function does not follow the on<Message> naming; skipped", SeverityWarning)
		return "", nil, false
	}

	var payload *service.Param
	for i := range fn.Params {
		if n, ok := fn.Params[i].Type.(service.Named); ok && n.Module == websocketModule && n.Name == "Caller" {
			continue
		}
		payload = &fn.Params[i]
		break
	}
	if payload == nil {
		w.addIssue(path, "remote function has no message parameter; skipped", SeverityWarning)
		return "", nil, false
	}

	pubName := messageName(payload.Type, base)
	pub := w.message(pubName, payload.Type, path+".payload")
	w.checkDispatcherField(payload.Type, path)

	ret := service.StripError(fn.Returns)
	if ret == nil {
		return pubName, nil, true
	}
	respType := ResponseTypeSimpleRPC
	if s, ok := ret.(service.Stream); ok {
		respType = ResponseTypeStreaming
		ret = service.StripError(s.Elem)
		if ret == nil {
			w.addIssue(path, "stream carries no message type", SeverityWarning)
			return pubName, nil, true
		}
	}

	var responses []string
	members := []service.TypeRef{ret}
	if u, ok := ret.(service.Union); ok {
		members = u.Members
	}
	for _, m := range members {
		name := messageName(m, base+"Response")
		w.message(name, m, path+".returns")
		responses = appendUnique(responses, name)
	}

	if _, exists := pub.Extra[responseExtension]; exists {
		w.addIssue(path, fmt.Sprintf("message %s already answered by another handler; response kept", pubName), SeverityWarning)
		return pubName, responses, true
	}
	if pub.Extra == nil {
		pub.Extra = make(map[string]any, 2)
	}
	pub.Extra[responseExtension] = responseValue(responses)
	pub.Extra[responseTypeExtension] = respType
	return pubName, responses, true
}

// message returns the component message called name, creating it on
// first use.
func (w *walker) message(name string, t service.TypeRef, path string) *parser.Message {
	if m, ok := w.messages[name]; ok {
		return m
	}
	m := &parser.Message{Name: name, Payload: w.schemas.schemaFor(t, path)}
	w.messages[name] = m
	return m
}

// checkDispatcherField warns when an incoming record cannot carry the
// dispatcher key.
func (w *walker) checkDispatcherField(t service.TypeRef, path string) {
	n, ok := t.(service.Named)
	if !ok || n.IsQualified() {
		return
	}
	td := w.module.Type(n.Name)
	if td == nil || td.Record == nil {
		return
	}
	if _, ok := td.Record.Field(w.key); !ok {
		w.addIssue(path, fmt.Sprintf("record %s has no %q field; messages cannot be dispatched to this handler", n.Name, w.key), SeverityWarning)
	}
}

// messageName names the message of t: module types keep their own name,
// anything else is named after the handler.
func messageName(t service.TypeRef, fallback string) string {
	if o, ok := t.(service.Optional); ok {
		t = o.Elem
	}
	if n, ok := t.(service.Named); ok && !n.IsQualified() {
		return naming.Unescape(n.Name)
	}
	return fallback
}

func messageRef(name string) *parser.Message {
	return &parser.Message{Ref: parser.MessageRefPrefix + name}
}

func messageRefs(names []string) *parser.Message {
	if len(names) == 1 {
		return messageRef(names[0])
	}
	out := &parser.Message{}
	for _, n := range names {
		out.OneOf = append(out.OneOf, messageRef(n))
	}
	return out
}

func responseValue(names []string) map[string]any {
	if len(names) == 1 {
		return map[string]any{"$ref": parser.MessageRefPrefix + names[0]}
	}
	refs := make([]any, len(names))
	for i, n := range names {
		refs[i] = map[string]any{"$ref": parser.MessageRefPrefix + n}
	}
	return map[string]any{"oneOf": refs}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// bindingSchema is the JSON Schema object written under bindings.ws.query
// and bindings.ws.headers.
type bindingSchema struct {
	properties map[string]*parser.Schema
	required   []string
}

func newBindingSchema() *bindingSchema {
	return &bindingSchema{properties: make(map[string]*parser.Schema)}
}

func (b *bindingSchema) add(name string, s *parser.Schema, required bool) {
	b.properties[name] = s
	if required {
		b.required = append(b.required, name)
	}
}

func (b *bindingSchema) empty() bool { return len(b.properties) == 0 }

func (b *bindingSchema) value() *parser.Schema {
	return &parser.Schema{Type: "object", Properties: b.properties, Required: b.required}
}
