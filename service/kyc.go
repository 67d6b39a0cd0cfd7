package service

import "github.com/Mareeswari30/Smart-Banking/model"

// NextKYCStatus applies an approve/reject decision. A later decision replaces
// an earlier one; no decision leads back to pending.
func NextKYCStatus(current model.KYCStatus, approve bool) (next model.KYCStatus, changed bool) {
	next = model.KYCRejected
	if approve {
		next = model.KYCApproved
	}
	return next, next != current
}
