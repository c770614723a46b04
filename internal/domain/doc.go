// Package domain models USGS earthquake event data and the contract for
// fetching it.
//
// # Data Source
//
// Events come from the USGS FDSN event web service:
//
//	https://earthquake.usgs.gov/fdsnws/event/1/query?format=geojson&starttime=...&endtime=...&minmagnitude=...
//
// The response is a GeoJSON FeatureCollection. Each Feature pairs a
// "properties" object with a Point "geometry". Only a subset of properties
// survive decoding into [EarthquakeEvent]; provider bookkeeping (status,
// network code, source lists, station counts, residuals) is dropped.
//
// # USGS Data Conventions
//
// Coordinates:
//
//	GeoJSON order is [longitude, latitude, depth]. Depth is in kilometres and
//	may be negative for events above the sea-level reference.
//
// Times:
//
//	"time" and "updated" are integer milliseconds since the Unix epoch (UTC).
//	An event's "updated" is never earlier than its "time".
//
// Place:
//
//	Free text such as "10km N of Petrolia, CA". Remote and oceanic events may
//	carry a null or missing place; it decodes to a nil pointer, never "".
//
// Magnitude type:
//
//	The property is "magType" in the current feed. Some archived payloads use
//	"mag_type"; both decode onto [EarthquakeEvent.MagType].
//
// # Time Windows
//
// A [TimeRange] is half-open in this package's bookkeeping: consecutive
// sub-ranges share a boundary instant and never overlap in coverage. The
// provider itself treats starttime and endtime as inclusive, so an event
// landing exactly on a shared boundary can appear in two adjacent fetches.
//
// # Fetch Errors
//
// A fetch either succeeds or fails with one of two kinds: an
// [UnexpectedStatusError] when the provider answers with a non-200 status, or
// a [TransportError] for anything that went wrong on the wire or while
// decoding the body. There is no retry state.
package domain
