package entity

// Table nombre de tabla (o espacio de almacenamiento) sujeto a la matriz de permisos.
type Table string

const (
	TableProfiles             Table = "profiles"
	TableUserRoles            Table = "user_roles"
	TableSuppliers            Table = "suppliers"
	TableContracts            Table = "contracts"
	TableDocuments            Table = "documents"
	TableObligations          Table = "obligations"
	TablePayments             Table = "payments"
	TableAuditLogs            Table = "audit_logs"
	TableNotificationSettings Table = "notification_settings"
	// StorageContractDocuments almacenamiento binario de documentos (bucket).
	StorageContractDocuments Table = "storage.contracts-documents"
)

// DomainTables tablas de negocio: delete es siempre solo admin.
var DomainTables = []Table{TableSuppliers, TableContracts, TableDocuments, TableObligations, TablePayments}

// Tables todas las tablas de la matriz, en orden estable.
var Tables = []Table{
	TableProfiles, TableUserRoles,
	TableSuppliers, TableContracts, TableDocuments, TableObligations, TablePayments,
	TableAuditLogs, TableNotificationSettings, StorageContractDocuments,
}
