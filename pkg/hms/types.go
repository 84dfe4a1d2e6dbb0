package hms

import (
	"fmt"
	"strings"
)

// Role is the operator's role, fixed for the lifetime of a session.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleHospitalAdmin Role = "HOSPITAL_ADMIN"
	RoleDoctor        Role = "DOCTOR"
	RoleNurse         Role = "NURSE"
	RolePharmacist    Role = "PHARMACIST"
	RoleLabTechnician Role = "LAB_TECHNICIAN"
	RoleRadiologist   Role = "RADIOLOGIST"
	RoleReceptionist  Role = "RECEPTIONIST"
	RoleAccountant    Role = "ACCOUNTANT"
)

// Roles lists every role in the enumeration.
var Roles = []Role{
	RoleSuperAdmin, RoleHospitalAdmin, RoleDoctor, RoleNurse, RolePharmacist,
	RoleLabTechnician, RoleRadiologist, RoleReceptionist, RoleAccountant,
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a case-insensitive role name ("doctor", "LAB_TECHNICIAN",
// "lab-technician") into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// AuthResult is the payload of a successful login or refresh.
type AuthResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
}

// Page is a paginated collection. Number is zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// InRange reports whether the page index lies in [0, TotalPages-1].
// An empty result (TotalPages == 0) is in range only at index 0.
func (p *Page[T]) InRange() bool {
	if p.TotalPages == 0 {
		return p.Number == 0
	}
	return p.Number >= 0 && p.Number < p.TotalPages
}

type (
	Gender            string
	VisitType         string
	AppointmentStatus string
	AppointmentType   string
	PaymentMethod     string
	PaymentStatus     string
	BedStatus         string
	AdmissionStatus   string
	ImagingType       string
)

const (
	AppointmentScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentCheckedIn  AppointmentStatus = "CHECKED_IN"
	AppointmentInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentCompleted  AppointmentStatus = "COMPLETED"
	AppointmentCancelled  AppointmentStatus = "CANCELLED"
	AppointmentNoShow     AppointmentStatus = "NO_SHOW"
)

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentWaived   PaymentStatus = "WAIVED"
)

const (
	AdmissionAdmitted    AdmissionStatus = "ADMITTED"
	AdmissionDischarged  AdmissionStatus = "DISCHARGED"
	AdmissionTransferred AdmissionStatus = "TRANSFERRED"
	AdmissionDeceased    AdmissionStatus = "DECEASED"
)

// LabOrderStatus is shared by lab and imaging orders.
type LabOrderStatus string

const (
	LabOrdered         LabOrderStatus = "ORDERED"
	LabSampleCollected LabOrderStatus = "SAMPLE_COLLECTED"
	LabProcessing      LabOrderStatus = "PROCESSING"
	LabCompleted       LabOrderStatus = "COMPLETED"
	LabVerified        LabOrderStatus = "VERIFIED"
	LabReleased        LabOrderStatus = "RELEASED"
	LabCancelled       LabOrderStatus = "CANCELLED"
)

var labProgression = []LabOrderStatus{
	LabOrdered, LabSampleCollected, LabProcessing, LabCompleted, LabVerified, LabReleased,
}

// Next returns the status that follows s in the forward-only lab workflow.
// It returns false for terminal and unknown statuses. The backend enforces
// the progression; this is a display aid.
func (s LabOrderStatus) Next() (LabOrderStatus, bool) {
	for i, st := range labProgression {
		if st == s && i+1 < len(labProgression) {
			return labProgression[i+1], true
		}
	}
	return "", false
}

// ClaimStatus is the adjudication state of an insurance claim.
type ClaimStatus string

const (
	ClaimDraft             ClaimStatus = "DRAFT"
	ClaimSubmitted         ClaimStatus = "SUBMITTED"
	ClaimPreAuthorized     ClaimStatus = "PRE_AUTHORIZED"
	ClaimApproved          ClaimStatus = "APPROVED"
	ClaimPartiallyApproved ClaimStatus = "PARTIALLY_APPROVED"
	ClaimRejected          ClaimStatus = "REJECTED"
	ClaimPaid              ClaimStatus = "PAID"
)

// ClaimStatuses lists claim statuses in display order.
var ClaimStatuses = []ClaimStatus{
	ClaimDraft, ClaimSubmitted, ClaimPreAuthorized, ClaimApproved,
	ClaimPartiallyApproved, ClaimRejected, ClaimPaid,
}

// NeedsApprovedAmount reports whether a status update to s carries an
// approved amount.
func (s ClaimStatus) NeedsApprovedAmount() bool {
	return s == ClaimApproved || s == ClaimPartiallyApproved
}

type User struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Phone          string `json:"phone"`
	Role           Role   `json:"role"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Active         bool   `json:"active"`
}

type Patient struct {
	ID                    int64  `json:"id"`
	PatientNo             string `json:"patientNo"`
	FullName              string `json:"fullName"`
	Gender                Gender `json:"gender"`
	DateOfBirth           string `json:"dateOfBirth"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	IDNumber              string `json:"idNumber"`
	Address               string `json:"address"`
	NextOfKinName         string `json:"nextOfKinName"`
	NextOfKinPhone        string `json:"nextOfKinPhone"`
	NextOfKinRelationship string `json:"nextOfKinRelationship"`
	Allergies             string `json:"allergies"`
	BloodGroup            string `json:"bloodGroup"`
	InsuranceCompanyID    *int64 `json:"insuranceCompanyId"`
	InsuranceCompanyName  string `json:"insuranceCompanyName"`
	InsuranceMemberNumber string `json:"insuranceMemberNumber"`
}

type Visit struct {
	ID                int64          `json:"id"`
	PatientID         int64          `json:"patientId"`
	PatientName       string         `json:"patientName"`
	PatientNo         string         `json:"patientNo"`
	DoctorID          *int64         `json:"doctorId"`
	DoctorName        string         `json:"doctorName"`
	VisitType         VisitType      `json:"visitType"`
	ChiefComplaint    string         `json:"chiefComplaint"`
	PresentingIllness string         `json:"presentingIllness"`
	Examination       string         `json:"examination"`
	Diagnosis         string         `json:"diagnosis"`
	DiagnosisCode     string         `json:"diagnosisCode"`
	TreatmentPlan     string         `json:"treatmentPlan"`
	DoctorNotes       string         `json:"doctorNotes"`
	BloodPressure     string         `json:"bloodPressure"`
	Temperature       *float64       `json:"temperature"`
	PulseRate         *int           `json:"pulseRate"`
	RespiratoryRate   *int           `json:"respiratoryRate"`
	Weight            *float64       `json:"weight"`
	Height            *float64       `json:"height"`
	OxygenSaturation  *float64       `json:"oxygenSaturation"`
	Completed         bool           `json:"completed"`
	CreatedAt         string         `json:"createdAt"`
	Prescriptions     []Prescription `json:"prescriptions,omitempty"`
	LabOrders         []LabOrder     `json:"labOrders,omitempty"`
	ImagingOrders     []ImagingOrder `json:"imagingOrders,omitempty"`
}

type Appointment struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patientId"`
	PatientName     string            `json:"patientName"`
	DoctorID        int64             `json:"doctorId"`
	DoctorName      string            `json:"doctorName"`
	Department      string            `json:"department"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	AppointmentType AppointmentType   `json:"appointmentType"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes"`
	WalkIn          bool              `json:"walkIn"`
	CreatedAt       string            `json:"createdAt"`
}

type Drug struct {
	ID              int64   `json:"id"`
	GenericName     string  `json:"genericName"`
	BrandName       string  `json:"brandName"`
	Category        string  `json:"category"`
	Formulation     string  `json:"formulation"`
	Strength        string  `json:"strength"`
	QuantityInStock int     `json:"quantityInStock"`
	ReorderLevel    int     `json:"reorderLevel"`
	BatchNumber     string  `json:"batchNumber"`
	ExpiryDate      string  `json:"expiryDate"`
	Supplier        string  `json:"supplier"`
	CostPrice       float64 `json:"costPrice"`
	SellingPrice    float64 `json:"sellingPrice"`
	Controlled      bool    `json:"controlled"`
	Active          bool    `json:"active"`
}

// LowStock reports whether the stock level is at or below the reorder level.
func (d *Drug) LowStock() bool {
	return d.QuantityInStock <= d.ReorderLevel
}

type Prescription struct {
	ID                 int64  `json:"id"`
	VisitID            int64  `json:"visitId"`
	DrugID             int64  `json:"drugId"`
	DrugName           string `json:"drugName"`
	Dosage             string `json:"dosage"`
	Frequency          string `json:"frequency"`
	Duration           string `json:"duration"`
	QuantityPrescribed int    `json:"quantityPrescribed"`
	QuantityDispensed  int    `json:"quantityDispensed"`
	Instructions       string `json:"instructions"`
	Dispensed          bool   `json:"dispensed"`
	DispensedByName    string `json:"dispensedByName"`
	DispensedAt        string `json:"dispensedAt"`
	CreatedAt          string `json:"createdAt"`
}

type LabTest struct {
	ID                  int64   `json:"id"`
	TestName            string  `json:"testName"`
	TestCode            string  `json:"testCode"`
	Category            string  `json:"category"`
	SampleType          string  `json:"sampleType"`
	Price               float64 `json:"price"`
	ReferenceRange      string  `json:"referenceRange"`
	Unit                string  `json:"unit"`
	TurnaroundTimeHours int     `json:"turnaroundTimeHours"`
	Active              bool    `json:"active"`
}

type LabOrder struct {
	ID                int64          `json:"id"`
	VisitID           int64          `json:"visitId"`
	TestID            int64          `json:"testId"`
	TestName          string         `json:"testName"`
	TestCode          string         `json:"testCode"`
	Category          string         `json:"category"`
	OrderedByID       int64          `json:"orderedById"`
	OrderedByName     string         `json:"orderedByName"`
	Status            LabOrderStatus `json:"status"`
	Result            string         `json:"result"`
	Abnormal          bool           `json:"abnormal"`
	Remarks           string         `json:"remarks"`
	ProcessedByName   string         `json:"processedByName"`
	VerifiedByName    string         `json:"verifiedByName"`
	SampleCollectedAt string         `json:"sampleCollectedAt"`
	ProcessedAt       string         `json:"processedAt"`
	VerifiedAt        string         `json:"verifiedAt"`
	ReleasedAt        string         `json:"releasedAt"`
	CreatedAt         string         `json:"createdAt"`
}

// LabResult is the body of a lab order "process" step.
type LabResult struct {
	Result        string `json:"result"`
	Abnormal      bool   `json:"abnormal"`
	Remarks       string `json:"remarks"`
	ProcessedByID int64  `json:"processedById"`
}

type ImagingOrder struct {
	ID                 int64          `json:"id"`
	VisitID            int64          `json:"visitId"`
	ImagingType        ImagingType    `json:"imagingType"`
	BodyPart           string         `json:"bodyPart"`
	ClinicalIndication string         `json:"clinicalIndication"`
	Status             LabOrderStatus `json:"status"`
	Findings           string         `json:"findings"`
	Impression         string         `json:"impression"`
	Price              float64        `json:"price"`
	RadiologistName    string         `json:"radiologistName"`
	CompletedAt        string         `json:"completedAt"`
	CreatedAt          string         `json:"createdAt"`
}

// ImagingReport is the body of an imaging order completion.
type ImagingReport struct {
	Findings      string `json:"findings"`
	Impression    string `json:"impression"`
	RadiologistID int64  `json:"radiologistId"`
}

type Billing struct {
	ID                     int64         `json:"id"`
	InvoiceNumber          string        `json:"invoiceNumber"`
	PatientID              int64         `json:"patientId"`
	PatientName            string        `json:"patientName"`
	PatientNo              string        `json:"patientNo"`
	VisitID                *int64        `json:"visitId"`
	TotalAmount            float64       `json:"totalAmount"`
	PaidAmount             float64       `json:"paidAmount"`
	InsuranceCoveredAmount float64       `json:"insuranceCoveredAmount"`
	Status                 PaymentStatus `json:"status"`
	Items                  []BillingItem `json:"items,omitempty"`
	Payments               []Payment     `json:"payments,omitempty"`
	CreatedAt              string        `json:"createdAt"`
}

// Balance is the amount still owed: total less payments and insurance
// cover, never negative.
func (b *Billing) Balance() float64 {
	balance := b.TotalAmount - b.PaidAmount - b.InsuranceCoveredAmount
	if balance < 0 {
		return 0
	}
	return balance
}

type BillingItem struct {
	ID          int64   `json:"id"`
	BillingID   int64   `json:"billingId"`
	ServiceType string  `json:"serviceType"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type Payment struct {
	ID              int64         `json:"id"`
	BillingID       int64         `json:"billingId"`
	Amount          float64       `json:"amount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	ReferenceNumber string        `json:"referenceNumber"`
	ReceiptNumber   string        `json:"receiptNumber"`
	ReceivedByName  string        `json:"receivedByName"`
	CreatedAt       string        `json:"createdAt"`
}

type InsuranceCompany struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Active        bool   `json:"active"`
}

type InsuranceClaim struct {
	ID                   int64       `json:"id"`
	ClaimNumber          string      `json:"claimNumber"`
	BillingID            int64       `json:"billingId"`
	InvoiceNumber        string      `json:"invoiceNumber"`
	InsuranceCompanyID   int64       `json:"insuranceCompanyId"`
	InsuranceCompanyName string      `json:"insuranceCompanyName"`
	PatientID            int64       `json:"patientId"`
	PatientName          string      `json:"patientName"`
	ClaimAmount          float64     `json:"claimAmount"`
	ApprovedAmount       float64     `json:"approvedAmount"`
	Status               ClaimStatus `json:"status"`
	Remarks              string      `json:"remarks"`
	SubmittedAt          string      `json:"submittedAt"`
	CreatedAt            string      `json:"createdAt"`
}

// ClaimStatusUpdate is the body of a claim status change.
type ClaimStatusUpdate struct {
	Status         ClaimStatus `json:"status"`
	ApprovedAmount *float64    `json:"approvedAmount,omitempty"`
	Remarks        string      `json:"remarks,omitempty"`
}

type Ward struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	TotalBeds     int    `json:"totalBeds"`
	Active        bool   `json:"active"`
	AvailableBeds int    `json:"availableBeds"`
	OccupiedBeds  int    `json:"occupiedBeds"`
}

type Room struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"roomNumber"`
	WardID     int64  `json:"wardId"`
	WardName   string `json:"wardName"`
	Type       string `json:"type"`
	Beds       []Bed  `json:"beds,omitempty"`
}

type Bed struct {
	ID          int64     `json:"id"`
	BedNumber   string    `json:"bedNumber"`
	RoomID      int64     `json:"roomId"`
	RoomNumber  string    `json:"roomNumber"`
	WardName    string    `json:"wardName"`
	Status      BedStatus `json:"status"`
	DailyCharge float64   `json:"dailyCharge"`
}

type Admission struct {
	ID                  int64           `json:"id"`
	PatientID           int64           `json:"patientId"`
	PatientName         string          `json:"patientName"`
	PatientNo           string          `json:"patientNo"`
	VisitID             *int64          `json:"visitId"`
	BedID               int64           `json:"bedId"`
	BedNumber           string          `json:"bedNumber"`
	RoomNumber          string          `json:"roomNumber"`
	WardName            string          `json:"wardName"`
	AdmittingDoctorID   *int64          `json:"admittingDoctorId"`
	AdmittingDoctorName string          `json:"admittingDoctorName"`
	Status              AdmissionStatus `json:"status"`
	AdmissionReason     string          `json:"admissionReason"`
	DischargeSummary    string          `json:"dischargeSummary"`
	AdmittedAt          string          `json:"admittedAt"`
	DischargedAt        string          `json:"dischargedAt"`
	CreatedAt           string          `json:"createdAt"`
}

type NursingNote struct {
	ID          int64  `json:"id"`
	AdmissionID int64  `json:"admissionId"`
	NurseID     int64  `json:"nurseId"`
	NurseName   string `json:"nurseName"`
	Notes       string `json:"notes"`
	VitalSigns  string `json:"vitalSigns"`
	CreatedAt   string `json:"createdAt"`
}

type Notification struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type Dashboard struct {
	PatientsToday     int              `json:"patientsToday"`
	TotalPatients     int              `json:"totalPatients"`
	AppointmentsToday int              `json:"appointmentsToday"`
	VisitsToday       int              `json:"visitsToday"`
	RevenueToday      float64          `json:"revenueToday"`
	RevenueThisMonth  float64          `json:"revenueThisMonth"`
	PendingLabOrders  int              `json:"pendingLabOrders"`
	PendingBills      int              `json:"pendingBills"`
	OccupiedBeds      int              `json:"occupiedBeds"`
	AvailableBeds     int              `json:"availableBeds"`
	TotalBeds         int              `json:"totalBeds"`
	BedOccupancyRate  float64          `json:"bedOccupancyRate"`
	LowStockDrugs     []Drug           `json:"lowStockDrugs"`
	DepartmentVisits  map[string]int64 `json:"departmentVisits"`
}

// Report is an aggregate report keyed by metric name.
type Report map[string]any
