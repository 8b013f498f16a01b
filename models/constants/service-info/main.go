package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Somatic Variant Store Ingestion Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the somatic variant store ingestion API!"
	SERVICE_DESCRIPTION ServiceInfo = "Reconciles multi-caller somatic variant calls and coverage tables into the variant store."

	SERVICE_ARTIFACT    ServiceInfo = "variantstore"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.ngsflow:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
