package http

import (
	"net/http"
	"strconv"
	"strings"
)

type RouterConfig struct {
	Employees  *EmployeeHandler
	Rooms      *RoomHandler
	Teams      *TeamHandler
	Meetings   *MeetingHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Employees != nil {
		mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/employees/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/employees/")
			segments := splitPath(rest)
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			employeeID, ok := parseID(segments[0])
			if !ok {
				badRequest(w, errInvalidEmployeeID.Error())
				return
			}
			r = r.WithContext(ContextWithEmployeeID(r.Context(), employeeID))

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Employees.Get(w, r)
				case http.MethodPatch:
					cfg.Employees.Update(w, r)
				case http.MethodDelete:
					cfg.Employees.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
				}
			case len(segments) == 2 && segments[1] == "availability":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Employees.Availability(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/rooms/")
			segments := splitPath(rest)
			if len(segments) != 1 {
				http.NotFound(w, r)
				return
			}

			roomID, ok := parseID(segments[0])
			if !ok {
				badRequest(w, errInvalidRoomID.Error())
				return
			}
			r = r.WithContext(ContextWithRoomID(r.Context(), roomID))

			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.Get(w, r)
			case http.MethodPatch:
				cfg.Rooms.Update(w, r)
			case http.MethodDelete:
				cfg.Rooms.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
			}
		})
	}

	if cfg.Teams != nil {
		mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Teams.List(w, r)
			case http.MethodPost:
				cfg.Teams.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/teams/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/teams/")
			segments := splitPath(rest)
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			teamID, ok := parseID(segments[0])
			if !ok {
				badRequest(w, errInvalidTeamID.Error())
				return
			}
			r = r.WithContext(ContextWithTeamID(r.Context(), teamID))

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Teams.Get(w, r)
				case http.MethodPatch:
					cfg.Teams.Update(w, r)
				case http.MethodDelete:
					cfg.Teams.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
				}
			case len(segments) == 2 && segments[1] == "nonAvailableMembers":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Teams.NonAvailableMembers(w, r)
			case len(segments) == 3 && segments[1] == "employees":
				employeeID, ok := parseID(segments[2])
				if !ok {
					badRequest(w, errInvalidEmployeeID.Error())
					return
				}
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				r = r.WithContext(ContextWithEmployeeID(r.Context(), employeeID))
				cfg.Teams.AddEmployee(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Meetings != nil {
		mux.HandleFunc("/meetings", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Meetings.List(w, r)
		})
		mux.HandleFunc("/meetings/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/meetings/")
			segments := splitPath(rest)
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			switch segments[0] {
			case "team":
				if len(segments) != 2 {
					http.NotFound(w, r)
					return
				}
				teamID, ok := parseID(segments[1])
				if !ok {
					badRequest(w, errInvalidTeamID.Error())
					return
				}
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithTeamID(r.Context(), teamID))
				cfg.Meetings.CreateForTeam(w, r)
				return
			case "collaboration":
				if len(segments) != 1 {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Meetings.CreateCollaboration(w, r)
				return
			case "availableRooms":
				if len(segments) != 2 {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Meetings.AvailableRooms(w, r, segments[1])
				return
			}

			meetingID, ok := parseID(segments[0])
			if !ok {
				badRequest(w, errInvalidMeetingID.Error())
				return
			}
			r = r.WithContext(ContextWithMeetingID(r.Context(), meetingID))

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Meetings.Get(w, r)
				case http.MethodPatch:
					cfg.Meetings.Reschedule(w, r)
				case http.MethodDelete:
					cfg.Meetings.Cancel(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
				}
			case len(segments) == 4 && segments[1] == "employees":
				employeeID, ok := parseID(segments[3])
				if !ok {
					badRequest(w, errInvalidEmployeeID.Error())
					return
				}
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				r = r.WithContext(ContextWithEmployeeID(r.Context(), employeeID))
				switch segments[2] {
				case "add":
					cfg.Meetings.AddEmployee(w, r)
				case "remove":
					cfg.Meetings.RemoveEmployee(w, r)
				default:
					http.NotFound(w, r)
				}
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func splitPath(rest string) []string {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func badRequest(w http.ResponseWriter, message string) {
	http.Error(w, message, http.StatusBadRequest)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
