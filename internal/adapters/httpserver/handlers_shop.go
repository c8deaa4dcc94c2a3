package httpserver

import (
	"net/http"

	"github.com/phenrril/exactmatch/internal/domain"
)

const orderNotFound = "Order not found"

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Battery string `json:"battery"`
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	}
	if !actorFrom(r).Authenticated() {
		writeError(w, r, domain.ErrUnauthorized, "")
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	rv, err := s.reviews.Create(r.Context(), actorFrom(r), domain.ReviewInput{
		BatteryID: req.Battery,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 201, toReviewView(rv))
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	p, size := pagingParams(r.URL.Query())
	page, err := s.orders.List(r.Context(), actorFrom(r), p, size)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	writeJSON(w, 200, paginate(r, page, s.viewsFor(r).order))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress    string `json:"shipping_address"`
		ShippingCity       string `json:"shipping_city"`
		ShippingPostalCode string `json:"shipping_postal_code"`
		ShippingCountry    string `json:"shipping_country"`
		PhoneNumber        string `json:"phone_number"`
		Items              []struct {
			BatteryID string `json:"battery_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if !actorFrom(r).Authenticated() {
		writeError(w, r, domain.ErrUnauthorized, "")
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := domain.OrderInput{
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		PhoneNumber:        req.PhoneNumber,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, domain.OrderLineInput{BatteryID: it.BatteryID, Quantity: it.Quantity})
	}
	o, err := s.orders.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	writeJSON(w, 201, s.viewsFor(r).order(o))
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).Authenticated() {
		writeError(w, r, domain.ErrUnauthorized, "")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeMessage(w, 404, "error", orderNotFound)
		return
	}
	o, err := s.orders.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, r, err, orderNotFound)
		return
	}
	writeJSON(w, 200, s.viewsFor(r).order(o))
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := s.wishlist.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	v := s.viewsFor(r)
	out := make([]wishlistView, 0, len(list))
	for i := range list {
		out = append(out, wishlistView{ID: list[i].ID, Battery: v.batteryList(&list[i].Battery), CreatedAt: list[i].CreatedAt})
	}
	writeJSON(w, 200, out)
}

func (s *Server) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatteryID string `json:"battery_id"`
	}
	if !actorFrom(r).Authenticated() {
		writeError(w, r, domain.ErrUnauthorized, "")
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.wishlist.Add(r.Context(), actorFrom(r), req.BatteryID)
	if err != nil {
		writeError(w, r, err, batteryNotFound)
		return
	}
	if created {
		writeMessage(w, 201, "message", "Battery added to wishlist")
		return
	}
	writeMessage(w, 200, "message", "Battery already in wishlist")
}

func (s *Server) handleWishlistRemove(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).Authenticated() {
		writeError(w, r, domain.ErrUnauthorized, "")
		return
	}
	id, ok := pathUUID(r, "battery_id")
	if !ok {
		writeMessage(w, 404, "error", "Battery not in wishlist")
		return
	}
	if err := s.wishlist.Remove(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, r, err, "Battery not in wishlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
