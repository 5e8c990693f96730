// Package service models the host service declarations that the converter
// walks to produce an AsyncAPI document.
//
// A service tree is a YAML or JSON rendering of a host module: its
// websocket services, the service classes they hand connections to, and
// the record types the remote handlers exchange. Type positions are
// written as host type descriptors ("Message[]", "string?",
// "stream<Event, error?>") and parsed into TypeRef values when the tree is
// loaded.
//
//	services:
//	  - basePath: /chat
//	    annotations:
//	      - ref: websocket:ServiceConfig
//	        fields: {dispatcherKey: '"event"'}
//	    members:
//	      - kind: resource
//	        accessor: get
//	        path: rooms/[string id]
//	        returns: ChatService
//	classes:
//	  - name: ChatService
//	    qualifiers: [service]
//	    members:
//	      - kind: remote
//	        name: onSubscribe
//	        params:
//	          - {name: message, type: Subscribe}
//	        returns: Ack|error
package service
