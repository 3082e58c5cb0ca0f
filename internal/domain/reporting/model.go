// Package reporting computes the management dashboard and periodic reports.
// Nothing is cached; every call recomputes from the live tables.
package reporting

// DashboardStats is the front-desk snapshot.
type DashboardStats struct {
	AppointmentsToday int `json:"appointments_today"`
	QueueWaiting      int `json:"queue_waiting"`
	LowStockCount     int `json:"low_stock_count"`
	TotalCitizens     int `json:"total_citizens"`
}

type Summary struct {
	TotalPatients      int `json:"total_patients"`
	NewPatients        int `json:"new_patients"`
	TotalConsultations int `json:"total_consultations"`
	TotalPrescriptions int `json:"total_prescriptions"`
	TotalExams         int `json:"total_exams"`
	TfdRequests        int `json:"tfd_requests"`
}

type TypeCount struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DiagnosisCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type MedicationUsage struct {
	Medication string `json:"medication"`
	Quantity   int    `json:"quantity"`
}

type AgeBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Report struct {
	Summary             Summary           `json:"summary"`
	ConsultationsByType []TypeCount       `json:"consultations_by_type"`
	TopDiagnoses        []DiagnosisCount  `json:"top_diagnoses"`
	MedicationUsage     []MedicationUsage `json:"medication_usage"`
	AgeDistribution     []AgeBucket       `json:"age_distribution"`
}
