package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	suite.Suite
	baseURL         string
	token           string
	defaultFolderID int
	createdFolderID int
	createdSearchID int
	firstNoteID     string
}

func (s *E2ETestSuite) SetupSuite() {
	s.baseURL = "http://localhost:8080"
}

func (s *E2ETestSuite) do(method, path string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req, _ := http.NewRequest(method, s.baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	client := &http.Client{}
	resp, err := client.Do(req)
	s.Require().NoError(err)
	return resp
}

func decodeData(resp *http.Response) map[string]interface{} {
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return envelope.Data
}

func decodeList(resp *http.Response) []interface{} {
	var envelope struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	list, _ := envelope.Data.([]interface{})
	return list
}

func decodePage(resp *http.Response) ([]interface{}, int) {
	var envelope struct {
		Data struct {
			Data       []interface{} `json:"data"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return envelope.Data.Data, envelope.Data.Pagination.Total
}

func (s *E2ETestSuite) Test01_Register() {
	resp := s.do("POST", "/register", `{"username":"renter","password":"renterpass"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *E2ETestSuite) Test02_RegisterConflict() {
	resp := s.do("POST", "/register", `{"username":"renter","password":"renterpass"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusInternalServerError, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_LoginInvalid() {
	resp := s.do("POST", "/login", `{"username":"renter","password":"wrong"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test04_LoginValid() {
	resp := s.do("POST", "/login", `{"username":"renter","password":"renterpass"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	data := decodeData(resp)
	s.token, _ = data["token"].(string)
	s.NotEmpty(s.token)
}

func (s *E2ETestSuite) Test05_DefaultFolderExists() {
	resp := s.do("GET", "/folders", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	folders := decodeList(resp)
	s.Require().Len(folders, 1)
	f := folders[0].(map[string]interface{})
	s.True(f["isDefault"].(bool))
	s.defaultFolderID = int(f["id"].(float64))
}

func (s *E2ETestSuite) Test06_SaveProperty() {
	body := map[string]interface{}{
		"id":    "prop-1",
		"title": "Sunny 2BR in Capitol Hill",
		"address": map[string]string{
			"street": "500 Pine St", "city": "Seattle", "state": "WA",
		},
		"rent":      map[string]interface{}{"amount": 2100, "currency": "USD"},
		"type":      "apartment",
		"bedrooms":  2,
		"bathrooms": 1,
	}
	resp := s.do("POST", "/saved", body)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *E2ETestSuite) Test07_SavePropertyLegacyKey() {
	// Older clients send the listing key as propertyId instead of id.
	body := map[string]interface{}{
		"propertyId": "prop-2",
		"title":      "Studio near the lake",
		"rent":       map[string]interface{}{"amount": 1500, "currency": "USD"},
	}
	resp := s.do("POST", "/saved", body)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *E2ETestSuite) Test08_SaveWithoutIDRejected() {
	resp := s.do("POST", "/saved", `{"title":"no key"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test09_ListSaved() {
	resp := s.do("GET", "/saved", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	items, total := decodePage(resp)
	s.Len(items, 2)
	s.Equal(2, total)
}

func (s *E2ETestSuite) Test10_ListSavedUnknownCategory() {
	resp := s.do("GET", "/saved?category=bogus", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test11_Counts() {
	resp := s.do("GET", "/saved/counts", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	data := decodeData(resp)
	s.Equal(float64(2), data["all"])
	s.Equal(float64(2), data["recent"])
	s.Equal(float64(0), data["noted"])
}

func (s *E2ETestSuite) Test12_AddNote() {
	resp := s.do("POST", "/saved/prop-1/notes", `{"text":"great light, ask about parking"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	s.Require().Len(envelope.Data, 1)
	s.firstNoteID, _ = envelope.Data[0]["id"].(string)
	s.NotEmpty(s.firstNoteID)
}

func (s *E2ETestSuite) Test13_NotedCategory() {
	resp := s.do("GET", "/saved?category=noted", nil)
	defer resp.Body.Close()
	items, _ := decodePage(resp)
	s.Require().Len(items, 1)
	p := items[0].(map[string]interface{})
	s.Equal("prop-1", p["id"])
}

func (s *E2ETestSuite) Test14_PinAndArchiveNote() {
	resp := s.do("POST", "/saved/prop-1/notes", `{"text":"second thought"}`)
	resp.Body.Close()

	resp = s.do("PATCH", "/saved/prop-1/notes/"+s.firstNoteID+"/pin", nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do("PATCH", "/saved/prop-1/notes/"+s.firstNoteID+"/archive", nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// Archived notes are hidden by default.
	resp = s.do("GET", "/saved/prop-1/notes", nil)
	notes := decodeList(resp)
	resp.Body.Close()
	s.Len(notes, 1)

	resp = s.do("GET", "/saved/prop-1/notes?includeArchived=true", nil)
	notes = decodeList(resp)
	resp.Body.Close()
	s.Len(notes, 2)
}

func (s *E2ETestSuite) Test15_CreateFolder() {
	resp := s.do("POST", "/folders", `{"name":"Near work","color":"#1f77b4"}`)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := decodeData(resp)
	s.createdFolderID = int(data["id"].(float64))
	s.True(s.createdFolderID > 0)
}

func (s *E2ETestSuite) Test16_MoveToFolder() {
	resp := s.do("PATCH", "/saved/prop-1/folder", map[string]interface{}{"folderId": s.createdFolderID})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test17_FolderCount() {
	resp := s.do("GET", "/folders/"+strconv.Itoa(s.createdFolderID), nil)
	defer resp.Body.Close()
	data := decodeData(resp)
	s.Equal(float64(1), data["propertyCount"])
}

func (s *E2ETestSuite) Test18_DeleteDefaultFolderRefused() {
	resp := s.do("DELETE", "/folders/"+strconv.Itoa(s.defaultFolderID), nil)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test19_DeleteFolderReassignsMembers() {
	resp := s.do("DELETE", "/folders/"+strconv.Itoa(s.createdFolderID), nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do("GET", "/saved/prop-1", nil)
	data := decodeData(resp)
	resp.Body.Close()
	s.Equal(float64(s.defaultFolderID), data["folderId"])
}

func (s *E2ETestSuite) Test20_SortByPriceAsc() {
	resp := s.do("GET", "/saved?sortBy=price-low", nil)
	defer resp.Body.Close()
	items, _ := decodePage(resp)
	s.Require().Len(items, 2)
	first := items[0].(map[string]interface{})
	s.Equal("prop-2", first["id"])
}

func (s *E2ETestSuite) Test21_UnsaveAndRestore() {
	resp := s.do("PATCH", "/saved/prop-2/delete", nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do("GET", "/saved", nil)
	items, _ := decodePage(resp)
	resp.Body.Close()
	s.Len(items, 1)

	resp = s.do("PATCH", "/saved/prop-2/restore", nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do("GET", "/saved", nil)
	items, _ = decodePage(resp)
	resp.Body.Close()
	s.Len(items, 2)
}

func (s *E2ETestSuite) Test22_ResaveKeepsNotes() {
	body := map[string]interface{}{
		"id":    "prop-1",
		"title": "Sunny 2BR in Capitol Hill (updated)",
		"rent":  map[string]interface{}{"amount": 2200, "currency": "USD"},
	}
	resp := s.do("POST", "/saved", body)
	resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp = s.do("GET", "/saved/prop-1/notes?includeArchived=true", nil)
	notes := decodeList(resp)
	resp.Body.Close()
	s.Len(notes, 2)
}

func (s *E2ETestSuite) Test23_CreateSearch() {
	body := `{"name":"2BR under 2500","query":"seattle","params":{"maxRent":2500,"bedrooms":2}}`
	resp := s.do("POST", "/searches", body)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
	data := decodeData(resp)
	s.createdSearchID = int(data["id"].(float64))
}

func (s *E2ETestSuite) Test24_ToggleSearchAlerts() {
	resp := s.do("PATCH", "/searches/"+strconv.Itoa(s.createdSearchID), `{"notificationsEnabled":true}`)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do("GET", "/notifications/unread", nil)
	notifs := decodeList(resp)
	resp.Body.Close()
	s.NotEmpty(notifs)
}

func (s *E2ETestSuite) Test25_SaveProfile() {
	body := `{"profileId":"user-77","displayName":"Jordan","headline":"Quiet, early riser"}`
	resp := s.do("POST", "/profiles", body)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	counts := s.do("GET", "/saved/counts", nil)
	data := decodeData(counts)
	counts.Body.Close()
	s.Equal(float64(1), data["profiles"])
}

func (s *E2ETestSuite) Test26_UnsaveProfile() {
	resp := s.do("DELETE", "/profiles/user-77", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *E2ETestSuite) Test27_Logout() {
	resp := s.do("POST", "/logout", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The collection is reloaded from the database on the next request.
	list := s.do("GET", "/saved", nil)
	items, _ := decodePage(list)
	list.Body.Close()
	s.Len(items, 2)
}

func (s *E2ETestSuite) Test28_UnauthorizedWithoutToken() {
	saved := s.token
	s.token = ""
	resp := s.do("GET", "/saved", nil)
	defer resp.Body.Close()
	s.token = saved
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestE2ETestSuite(t *testing.T) {
	if os.Getenv("E2E") != "" {
		suite.Run(t, new(E2ETestSuite))
	}
}
