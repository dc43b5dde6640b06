package service

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Cache key helpers for the patient read paths. Everything lives under
// PatientKeyPrefix so a broad invalidation is a single prefix purge.
const (
	PatientKeyPrefix = "patients:"

	patientDetailKeyFmt = PatientKeyPrefix + "detail:%s"
	patientNIKKeyFmt    = PatientKeyPrefix + "by-nik:%s"
	patientRecordKeyFmt = PatientKeyPrefix + "by-record:%s"
	patientListKeyFmt   = PatientKeyPrefix + "list:%d:%d"
	patientSearchKeyFmt = PatientKeyPrefix + "search:%s"
	patientDoctorKeyFmt = PatientKeyPrefix + "by-doctor:%s"
	patientStatsKey     = PatientKeyPrefix + "stats"
	revenueReportKeyFmt = "reports:revenue:%s:%s"
)

func PatientDetailKey(id uuid.UUID) string {
	return fmt.Sprintf(patientDetailKeyFmt, id)
}

func PatientByNIKKey(nik string) string {
	return fmt.Sprintf(patientNIKKeyFmt, nik)
}

func PatientByRecordNumberKey(number string) string {
	return fmt.Sprintf(patientRecordKeyFmt, number)
}

func PatientListKey(page, limit int) string {
	return fmt.Sprintf(patientListKeyFmt, page, limit)
}

// PatientSearchKey hashes the serialized filter so any distinct parameter
// combination gets its own entry.
func PatientSearchKey(filter *entity.PatientFilter) string {
	data, err := json.Marshal(filter)
	if err != nil {
		// Filters are plain values; marshal cannot realistically fail.
		return fmt.Sprintf(patientSearchKeyFmt, "unhashed")
	}
	sum := sha1.Sum(data)
	return fmt.Sprintf(patientSearchKeyFmt, hex.EncodeToString(sum[:]))
}

func PatientByDoctorKey(doctorID uuid.UUID) string {
	return fmt.Sprintf(patientDoctorKeyFmt, doctorID)
}

func PatientStatsKey() string {
	return patientStatsKey
}

func RevenueReportKey(startDate, endDate string) string {
	return fmt.Sprintf(revenueReportKeyFmt, startDate, endDate)
}
