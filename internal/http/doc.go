// Package http provides HTTP handlers and middleware for the agenda API.
//
// The router exposes the following endpoints:
//   - POST /login: signs a user in. Body: {"login"}. Response:
//     {"login","nome","role"} with the identity also recorded in the
//     `agenda_session` cookie.
//   - POST /logout: signs the current user out, clears the cookie session and
//     the local reservation view. Returns 204 No Content.
//   - GET /turmas: fixed catalog of bookable turmas and shared spaces.
//   - GET /agendamentos, POST /agendamentos, PUT /agendamentos/{id},
//     DELETE /agendamentos/{id}: reservation endpoints exchanging the
//     `bookingDTO` payload defined in agendamento_handler.go. Mutations are
//     restricted to the owning professor.
//   - GET /professores, POST /professores/importar, DELETE /professores/{id}:
//     directory endpoints exchanging the `accountDTO` payload defined in
//     professor_handler.go. The whole surface requires the administrator.
//
// All endpoints except /login and /logout require a signed-in identity in the
// cookie session. Request/response DTOs live alongside their respective
// handlers so tests and documentation share the same ground truth.
package http
