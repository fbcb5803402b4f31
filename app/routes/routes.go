package routes

import (
	"net/http"

	"taskmaster/app/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
// The fixed /tasks/* views are registered before /tasks/{taskID} so mux
// matches them first.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/ping", taskController.Ping).Methods(http.MethodGet)

	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)

	router.HandleFunc("/tasks/today", taskController.GetTodayTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/upcoming", taskController.GetUpcomingTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/overdue", taskController.GetOverdueTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/stats", taskController.GetTaskStats).Methods(http.MethodGet)

	router.HandleFunc("/tasks/{taskID}", taskController.GetTaskByID).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)
}
