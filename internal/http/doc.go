// Package http provides HTTP handlers and middleware for the meeting booking API.
//
// The router exposes the following endpoints:
//   - GET /employees, POST /employees, GET/PATCH/DELETE /employees/{id}: employee
//     catalog endpoints exchanging the `employeeDTO` payload defined in
//     employee_handler.go.
//   - GET /employees/{id}/availability?start=&end=: reports whether the employee
//     is free for the RFC 3339 window given in the query string.
//   - GET /rooms, POST /rooms, GET/PATCH/DELETE /rooms/{id}: room catalog
//     endpoints exchanging the `roomDTO` payload defined in room_handler.go.
//   - GET /teams, POST /teams, GET/PATCH/DELETE /teams/{id}: team management
//     endpoints exchanging the `teamDTO` payload defined in team_handler.go.
//   - PUT /teams/{id}/employees/{employeeId}: adds an employee to a permanent
//     team.
//   - GET /teams/{id}/nonAvailableMembers?start=&end=: lists the members of the
//     team that are busy during the given window.
//   - POST /meetings/team/{teamId}: books a meeting for a permanent team. When
//     the body carries no room_id the response lists candidate rooms instead of
//     a committed meeting.
//   - POST /meetings/collaboration: books a meeting for an ad-hoc collaborator
//     set; an ephemeral collaboration team is created behind the scenes.
//   - GET /meetings, GET /meetings/{id}, PATCH /meetings/{id} (reschedule),
//     DELETE /meetings/{id} (cancel, subject to the notice period): meeting
//     lifecycle endpoints exchanging the `meetingDTO` payload defined in
//     meeting_handler.go.
//   - PUT /meetings/{id}/employees/add/{employeeId} and
//     PUT /meetings/{id}/employees/remove/{employeeId}: attendance changes. On
//     a meeting bound to a permanent team these fork a collaboration team so
//     the original roster is never mutated.
//   - GET /meetings/availableRooms/{strength}: lists rooms able to host the
//     given headcount, smallest first.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
