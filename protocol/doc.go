// Package protocol defines the wire messages exchanged with the remote
// renderer.
//
// # Overview
//
// Outbound messages are JSON objects with a "type" field naming the command
// and a flat payload whose fields vary per command. The set of commands is
// closed: variant selection, light slider, purse rotation, and active camera.
// Each command knows whether the server acknowledges its application, exposed
// through AckKey.
//
// Inbound messages are completion notifications. The renderer confirms a
// variant switch with {"Type":"switchVariantComplete","variantSetName":...};
// note the capitalized "Type" key, which is what the renderer actually emits.
//
// # Usage
//
//	cmd := protocol.VariantSelection{
//	    PrimPath:   "/Root/Purse",
//	    VariantSet: "viewingMode",
//	    Variant:    "tabletop",
//	}
//	data, err := cmd.Marshal()
//
//	ack, err := protocol.ParseAck(payload)
//	if err == nil && ack.VariantSet == cmd.AckKey() {
//	    // change confirmed
//	}
package protocol
