// Command seed populates a development database with a demo tenant, its
// staff, a school, students, a route, and a contract with installments.
package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transport-service/internal/config"
	"transport-service/internal/models"
)

func main() {
	cfg := config.New()
	logger := logrus.New()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := seed(db); err != nil {
		logger.WithError(err).Fatal("Seed failed")
	}
	logger.Info("Seed complete")
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		hash := func(pw string) string {
			h, _ := bcrypt.GenerateFromPassword([]byte(pw), 10)
			return string(h)
		}

		operator := models.User{
			Name:     "Platform Operator",
			Email:    "operator@transport.local",
			Password: hash("operator123"),
			Role:     models.RoleSuperAdmin,
		}
		if err := tx.Create(&operator).Error; err != nil {
			return err
		}

		tenant := models.Tenant{
			CompanyName:  "Transporte Escolar Sao Jorge",
			CPFCNPJ:      "12345678000190",
			ContactEmail: "contato@saojorge.local",
			ContactPhone: "11999990000",
			Status:       models.TenantStatusActive,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		mainAddr := models.Address{
			TenantID:   &tenant.ID,
			CEP:        "01310-100",
			Logradouro: "Avenida Paulista",
			Numero:     "1000",
			Bairro:     "Bela Vista",
			Cidade:     "Sao Paulo",
			Estado:     "SP",
		}
		if err := tx.Create(&mainAddr).Error; err != nil {
			return err
		}
		if err := tx.Model(&tenant).Update("main_address_id", mainAddr.ID).Error; err != nil {
			return err
		}

		admin := models.User{
			TenantID: &tenant.ID,
			Name:     "Maria Silva",
			Email:    "admin@saojorge.local",
			Password: hash("admin123"),
			Role:     models.RoleAdmin,
		}
		guardian := models.User{
			TenantID: &tenant.ID,
			Name:     "Joao Pereira",
			Email:    "joao@familia.local",
			Password: hash("guardian123"),
			Role:     models.RoleGuardian,
			Phone:    "11988887777",
		}
		driver := models.User{
			TenantID: &tenant.ID,
			Name:     "Carlos Souza",
			Email:    "carlos@saojorge.local",
			Password: hash("driver123"),
			Role:     models.RoleDriver,
		}
		monitor := models.User{
			TenantID: &tenant.ID,
			Name:     "Ana Lima",
			Email:    "ana@saojorge.local",
			Password: hash("monitor123"),
			Role:     models.RoleMonitor,
		}
		for _, u := range []*models.User{&admin, &guardian, &driver, &monitor} {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		schoolAddr := models.Address{
			TenantID:   &tenant.ID,
			CEP:        "04038-001",
			Logradouro: "Rua Vergueiro",
			Numero:     "3000",
			Bairro:     "Vila Mariana",
			Cidade:     "Sao Paulo",
			Estado:     "SP",
		}
		if err := tx.Create(&schoolAddr).Error; err != nil {
			return err
		}
		cnpj := "98765432000110"
		school := models.School{
			TenantID:  tenant.ID,
			Name:      "Colegio Horizonte",
			CNPJ:      &cnpj,
			Phone:     "1133334444",
			AddressID: &schoolAddr.ID,
		}
		if err := tx.Create(&school).Error; err != nil {
			return err
		}

		vehicle := models.Vehicle{
			TenantID:   tenant.ID,
			Placa:      "ABC1D23",
			Modelo:     "Mercedes Sprinter",
			Ano:        2022,
			Capacidade: 20,
			Status:     models.VehicleStatusActive,
		}
		if err := tx.Create(&vehicle).Error; err != nil {
			return err
		}

		student := models.Student{
			TenantID:   tenant.ID,
			Name:       "Pedro Pereira",
			GuardianID: guardian.ID,
			SchoolID:   school.ID,
		}
		if err := tx.Create(&student).Error; err != nil {
			return err
		}

		homeAddr := models.Address{
			TenantID:   &tenant.ID,
			CEP:        "05407-002",
			Logradouro: "Rua dos Pinheiros",
			Numero:     "500",
			Bairro:     "Pinheiros",
			Cidade:     "Sao Paulo",
			Estado:     "SP",
		}
		if err := tx.Create(&homeAddr).Error; err != nil {
			return err
		}
		link := models.StudentAddress{
			StudentID: student.ID,
			AddressID: homeAddr.ID,
			Label:     "Casa",
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		route := models.Route{
			TenantID:    tenant.ID,
			Name:        "Rota Manha Pinheiros",
			Description: "Pinheiros e Vila Mariana, turno da manha",
			SchoolID:    school.ID,
		}
		if err := tx.Create(&route).Error; err != nil {
			return err
		}

		weekdays, err := models.NewJSONB([]string{"seg", "ter", "qua", "qui", "sex"})
		if err != nil {
			return err
		}
		routeStudent := models.RouteStudent{
			TenantID:        tenant.ID,
			RouteID:         route.ID,
			StudentID:       student.ID,
			PickupAddressID: &homeAddr.ID,
			Weekdays:        weekdays,
			PickupOrder:     1,
		}
		if err := tx.Create(&routeStudent).Error; err != nil {
			return err
		}
		for _, staff := range []models.RouteStaff{
			{TenantID: tenant.ID, RouteID: route.ID, UserID: driver.ID, AssignmentType: models.AssignmentMainDriver},
			{TenantID: tenant.ID, RouteID: route.ID, UserID: monitor.ID, AssignmentType: models.AssignmentMonitor},
		} {
			s := staff
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}

		firstDue := time.Date(time.Now().Year(), time.February, 10, 0, 0, 0, 0, time.UTC)
		contract := models.Contract{
			TenantID:          tenant.ID,
			GuardianID:        guardian.ID,
			StudentID:         student.ID,
			InstallmentsCount: 11,
			InstallmentValue:  450,
			FirstDueDate:      firstDue,
			DueDay:            10,
			Status:            models.ContractStatusActive,
			Notes:             "Ano letivo, fevereiro a dezembro",
		}
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}
		installments := make([]models.Installment, 0, contract.InstallmentsCount)
		for i := 0; i < contract.InstallmentsCount; i++ {
			installments = append(installments, models.Installment{
				TenantID:          tenant.ID,
				ContractID:        contract.ID,
				InstallmentNumber: i + 1,
				DueDate:           firstDue.AddDate(0, i, 0),
				BaseValue:         contract.InstallmentValue,
				Status:            models.InstallmentStatusPending,
			})
		}
		return tx.Create(&installments).Error
	})
}
