package gateway

// The gateway answers in two shapes: transaction fields flat at the
// top level, or the same fields nested under "data" with the embedded
// status code (and sometimes referenceData) left at the top. Both are
// folded into one Transaction here and nowhere else.

type rawTransaction struct {
	StatusCode    int            `json:"statusCode"`
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	Error         string         `json:"error"`
	TransactionID string         `json:"transactionID"`
	RequestID     string         `json:"requestId"`
	Amount        float64        `json:"amount"`
	Method        string         `json:"method"`
	ReferenceData map[string]any `json:"referenceData"`
}

type rawResponse struct {
	rawTransaction
	Data *rawTransaction `json:"data"`
}

func (r *rawResponse) failureMessage() string {
	candidates := []string{r.Error, r.Message}
	if r.Data != nil {
		candidates = append(candidates, r.Data.Error, r.Data.Message)
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func normalize(raw *rawResponse) (*Transaction, error) {
	tx := raw.rawTransaction
	if raw.Data != nil {
		tx = *raw.Data
		if tx.StatusCode == 0 {
			tx.StatusCode = raw.StatusCode
		}
		if tx.ReferenceData == nil {
			tx.ReferenceData = raw.ReferenceData
		}
	}

	if tx.StatusCode != 200 {
		return nil, &Error{
			Code:    tx.StatusCode,
			Message: raw.failureMessage(),
		}
	}

	id := tx.TransactionID
	if id == "" {
		id = tx.RequestID
	}
	if id == "" {
		return nil, &Error{
			Code:    tx.StatusCode,
			Message: "response missing transaction id",
		}
	}

	return &Transaction{
		TransactionID: id,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Method:        tx.Method,
		Reference:     tx.ReferenceData,
	}, nil
}
