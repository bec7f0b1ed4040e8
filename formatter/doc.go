// Package formatter builds and serializes the agent overview.
//
// This package is organized into:
// - overview.go: VehicleMonitoring delivery and agent cards from the tracking store
// - wrapper.go: ServiceDelivery wrapping
// - json.go: JSON serialization
// - xml.go: XML serialization with proper escaping
package formatter
