package models

// FlyerTemplateData данные для шаблонов уведомлений по листовке
type FlyerTemplateData struct {
	RecipientName string
	FlyerName     string
	SupplierName  string
	ValidFrom     string
	ValidTo       string
	Reason        string
	FlyerLink     string
}
