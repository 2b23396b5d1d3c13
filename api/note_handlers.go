package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/note-search/model"
)

// NoteRequest is the body accepted when creating or replacing a note.
type NoteRequest struct {
	Title  string         `json:"title"`
	Tags   []string       `json:"tags"`
	Inputs []InputRequest `json:"inputs"`
}

// InputRequest is one input of a NoteRequest. The id is only honored on
// update, for inputs the note already has.
type InputRequest struct {
	ID    string `json:"id,omitempty"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (r *NoteRequest) toNote(ownerID, noteID string) model.Note {
	inputs := make([]model.NoteInput, len(r.Inputs))
	for i, input := range r.Inputs {
		inputs[i] = model.NoteInput{
			ID:    input.ID,
			Kind:  model.InputKind(input.Kind),
			Value: input.Value,
		}
	}
	return model.Note{
		ID:      noteID,
		OwnerID: ownerID,
		Title:   r.Title,
		Tags:    r.Tags,
		Inputs:  inputs,
	}
}

func (api *API) bindNoteRequest(c *gin.Context) (*NoteRequest, bool) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return nil, false
	}
	if result := ValidateNoteRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return nil, false
	}
	return &req, true
}

// CreateNoteHandler creates a note owned by the caller.
// Request Body: NoteRequest
func (api *API) CreateNoteHandler(c *gin.Context) {
	req, ok := api.bindNoteRequest(c)
	if !ok {
		return
	}

	note, err := api.notes.CreateNote(c.Request.Context(), req.toNote(ownerFrom(c), ""))
	if err != nil {
		SendServiceError(c, "create note", "", err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetNoteHandler returns one of the caller's notes
func (api *API) GetNoteHandler(c *gin.Context) {
	noteID := c.Param("noteId")
	if result := ValidateNoteID(noteID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	note, err := api.notes.GetNote(c.Request.Context(), ownerFrom(c), noteID)
	if err != nil {
		SendServiceError(c, "get note", noteID, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// UpdateNoteHandler replaces the title, tags and inputs of one of the caller's notes.
// Request Body: NoteRequest
func (api *API) UpdateNoteHandler(c *gin.Context) {
	noteID := c.Param("noteId")
	if result := ValidateNoteID(noteID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	req, ok := api.bindNoteRequest(c)
	if !ok {
		return
	}

	note, err := api.notes.UpdateNote(c.Request.Context(), req.toNote(ownerFrom(c), noteID))
	if err != nil {
		SendServiceError(c, "update note", noteID, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNoteHandler deletes one of the caller's notes
func (api *API) DeleteNoteHandler(c *gin.Context) {
	noteID := c.Param("noteId")
	if result := ValidateNoteID(noteID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.notes.DeleteNote(c.Request.Context(), ownerFrom(c), noteID); err != nil {
		SendServiceError(c, "delete note", noteID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note '" + noteID + "' deleted"})
}
