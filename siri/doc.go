// Package siri defines the SIRI (Service Interface for Real-time Information)
// VehicleMonitoring types used for the agent position overview.
//
// Each tracked agent is published as one VehicleActivity whose
// MonitoredVehicleJourney carries the agent id as VehicleRef and the latest
// known position as VehicleLocation.
package siri
