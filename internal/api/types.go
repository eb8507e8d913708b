package api

// Response represents the top-level Al Adhan timings response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings and metadata.
type Data struct {
	Timings Timings `json:"timings"`
	Meta    Meta    `json:"meta"`
}

// Timings contains the prayer times as HH:MM strings.
// The API may include a timezone suffix like " (BST)" which is stripped during parsing.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// status is the envelope shared by every endpoint; Probe only needs this.
type status struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}
