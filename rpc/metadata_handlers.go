package rpc

import (
	"net/http"

	"dropletvault/core/types"
	"dropletvault/native/bucket"
	"dropletvault/native/collection"
)

type creatorPayload struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type collectionRefPayload struct {
	Mint     string `json:"mint"`
	Verified bool   `json:"verified"`
}

type registerMetadataRequest struct {
	Signer     string                `json:"signer"`
	Item       string                `json:"item"`
	Symbol     string                `json:"symbol"`
	Creators   []creatorPayload      `json:"creators,omitempty"`
	Collection *collectionRefPayload `json:"collection,omitempty"`
}

// registerMetadata feeds the storage-backed metadata registry. It is gated
// on the same admin identity as the engine's administrative surface.
func (s *Server) registerMetadata(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "metadata registry not configured"})
		return
	}
	var req registerMetadataRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if signer != s.engine.Config().Admin {
		writeError(w, bucket.ErrAdminAccessUnauthorized)
		return
	}
	itemRaw, err := parse32(req.Item)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	meta := &collection.ItemMetadata{
		Item:   types.ItemID(itemRaw),
		Symbol: req.Symbol,
	}
	for _, creator := range req.Creators {
		addr, err := types.ParseAddress(creator.Address)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		meta.Creators = append(meta.Creators, collection.Creator{Address: addr, Verified: creator.Verified})
	}
	if req.Collection != nil {
		mintRaw, err := parse32(req.Collection.Mint)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		meta.Collection = &collection.CollectionRef{Mint: types.TokenID(mintRaw), Verified: req.Collection.Verified}
	}
	if err := s.registry.Register(meta); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"item": req.Item})
}
