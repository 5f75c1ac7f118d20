/*
Package backend implements the jobly REST api on top of a mux router.

Routes

	POST   /auth/token
	POST   /auth/register
	POST   /companies                                admin
	GET    /companies?minEmployees=&maxEmployees=&name=
	GET    /companies/{handle}
	PATCH  /companies/{handle}                       admin
	DELETE /companies/{handle}                       admin
	PUT    /companies/{handle}/logo                  admin
	POST   /jobs                                     admin
	GET    /jobs?title=&minSalary=&hasEquity=
	GET    /jobs/{id}
	PATCH  /jobs/{id}                                admin
	DELETE /jobs/{id}                                admin
	POST   /jobs/{id}/technologies/{techId}          admin
	DELETE /jobs/{id}/technologies/{techId}          admin
	POST   /users                                    admin
	GET    /users                                    admin
	GET    /users/{username}                         admin or same user
	PATCH  /users/{username}                         admin or same user
	DELETE /users/{username}                         admin or same user
	POST   /users/{username}/jobs/{id}               admin or same user
	POST   /users/{username}/technologies/{techId}   admin or same user
	DELETE /users/{username}/technologies/{techId}   admin or same user
	POST   /technologies                             admin
	GET    /technologies
	GET    /technologies/{id}
	DELETE /technologies/{id}                        admin

Request bodies are validated against the jobly JSON schemas before they are decoded.
Errors are answered as

	{"error": {"message": ..., "status": ...}}

A request without token is answered with 401 on guarded routes, a logged in user who is
not an admin gets 400 on admin routes.
*/
package backend
