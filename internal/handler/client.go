package handler

// ClientList is the standardized envelope for list responses.  Page,
// TotalPages and PerPage are fixed placeholders until pagination lands.
type ClientList struct {
	Records      interface{} `json:"records"`
	TotalRecords int         `json:"totalRecords"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"totalPages"`
	PerPage      int         `json:"perPage"`
}

func listOf(records interface{}, total int) ClientList {
	return ClientList{Records: records, TotalRecords: total, Page: 0, TotalPages: 1, PerPage: 0}
}
