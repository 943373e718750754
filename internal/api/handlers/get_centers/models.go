package get_centers

import "github.com/m04kA/SMC-SpaBooking/internal/domain"

// CenterResponse центр, доступный для записи
type CenterResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type CentersResponse struct {
	Centers []CenterResponse `json:"centers"`
}

func FromDomainCenters(centers []domain.Center) *CentersResponse {
	resp := &CentersResponse{Centers: make([]CenterResponse, 0, len(centers))}
	for _, c := range centers {
		resp.Centers = append(resp.Centers, CenterResponse{ID: c.ID, Name: c.Name, Address: c.Address})
	}
	return resp
}
