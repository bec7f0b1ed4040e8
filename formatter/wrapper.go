package formatter

import (
	"github.com/theoremus-urban-solutions/salestrack/siri"
	"github.com/theoremus-urban-solutions/salestrack/utils"
)

// DefaultProducerRef is used when no producer is configured.
const DefaultProducerRef = "SALESTRACK"

// BuildServiceDelivery creates a standardized ServiceDelivery wrapper
// with ResponseTimestamp and ProducerRef
func BuildServiceDelivery(timestamp int64, producer string) siri.ServiceDelivery {
	if producer == "" {
		producer = DefaultProducerRef
	}
	return siri.ServiceDelivery{
		ResponseTimestamp: utils.Iso8601FromUnixSeconds(timestamp),
		ProducerRef:       producer,
	}
}

// WrapVehicleMonitoringResponse wraps a VM delivery in a complete SIRI response
func WrapVehicleMonitoringResponse(vm siri.VehicleMonitoring, timestamp int64, producer string) *siri.SiriResponse {
	sd := BuildServiceDelivery(timestamp, producer)
	sd.VehicleMonitoringDelivery = []siri.VehicleMonitoring{vm}
	return &siri.SiriResponse{
		Siri: siri.SiriServiceDelivery{
			ServiceDelivery: sd,
		},
	}
}
