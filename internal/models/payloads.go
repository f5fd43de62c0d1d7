package models

import "encoding/json"

// These structs describe the payloads crossing the worker boundary: the queue
// envelopes coming in, the storage notifications nested in them, and the
// analysis result going out.

// Envelope is one delivered queue message. Body holds a JSON-encoded
// storage notification.
type Envelope struct {
	MessageID string
	Body      string
}

// StorageNotification is the parsed envelope body. Test events sent by the
// storage service carry no Records and decode to zero work items.
type StorageNotification struct {
	Records []StorageEventRecord `json:"Records"`
}

type StorageEventRecord struct {
	S3 *S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket *S3Bucket `json:"bucket"`
	Object *S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

// S3Object.Key is percent-encoded by the storage service.
type S3Object struct {
	Key *string `json:"key"`
}

// PubSubMessagePublished is the data of a google.cloud.pubsub.topic.v1.messagePublished
// CloudEvent. Message.Data arrives base64 encoded and is decoded by encoding/json.
type PubSubMessagePublished struct {
	Message struct {
		Data       []byte            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Block is the part of an analysis block the worker reads. Every other field
// survives untouched in AnalysisResult.Raw.
type Block struct {
	BlockType string  `json:"BlockType,omitempty"`
	Text      *string `json:"Text,omitempty"`
}

// AnalysisResult is the output of one extraction call.
type AnalysisResult struct {
	// Raw is the full service response, stored verbatim as the output artifact.
	Raw    json.RawMessage
	Blocks []Block
}

// Ack is returned to the host when a whole batch succeeded.
type Ack struct {
	OK bool `json:"ok"`
}
