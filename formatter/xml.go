package formatter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/salestrack/siri"
)

// BuildXML serializes a SIRI response to XML
func (rb *responseBuilder) BuildXML(res *siri.SiriResponse) []byte {
	var b strings.Builder
	b.WriteString("<Siri xmlns=\"http://www.siri.org.uk/siri\">")
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	writeElement(&b, "ResponseTimestamp", sd.ResponseTimestamp)
	writeElement(&b, "ProducerRef", sd.ProducerRef)
	for _, vm := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vm)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vm siri.VehicleMonitoring) {
	b.WriteString("<VehicleMonitoringDelivery>")
	writeElement(b, "ResponseTimestamp", vm.ResponseTimestamp)
	writeElement(b, "ValidUntil", vm.ValidUntil)
	for _, va := range vm.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		writeElement(b, "RecordedAtTime", va.RecordedAtTime)
		writeElement(b, "ValidUntilTime", va.ValidUntilTime)
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	writeElement(b, "VehicleMode", mvj.VehicleMode)
	writeElement(b, "PublishedLineName", mvj.PublishedLineName)
	writeElement(b, "OperatorRef", mvj.OperatorRef)
	b.WriteString("<Monitored>")
	b.WriteString(strconv.FormatBool(mvj.Monitored))
	b.WriteString("</Monitored>")
	writeElement(b, "DataSource", mvj.DataSource)
	if loc := mvj.VehicleLocation; loc != nil && loc.Latitude != nil && loc.Longitude != nil {
		b.WriteString("<VehicleLocation>")
		b.WriteString("<Longitude>")
		b.WriteString(strconv.FormatFloat(*loc.Longitude, 'f', -1, 64))
		b.WriteString("</Longitude>")
		b.WriteString("<Latitude>")
		b.WriteString(strconv.FormatFloat(*loc.Latitude, 'f', -1, 64))
		b.WriteString("</Latitude>")
		b.WriteString("</VehicleLocation>")
	}
	if mvj.Bearing != nil {
		b.WriteString("<Bearing>")
		b.WriteString(strconv.FormatFloat(*mvj.Bearing, 'f', 1, 64))
		b.WriteString("</Bearing>")
	}
	writeElement(b, "VehicleRef", mvj.VehicleRef)
	b.WriteString("</MonitoredVehicleJourney>")
}

// writeElement writes <name>value</name>, skipping empty values.
func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
